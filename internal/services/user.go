package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgUserIDRequired       = "El ID del usuario es requerido"
	MsgUserUsernameRequired = "El nombre de usuario es requerido"
	MsgUserEmailRequired    = "El email es requerido"
	MsgUserEmailInvalid     = "El email no tiene un formato válido"
	MsgUserPasswordRequired = "La contraseña es requerida"
	MsgUserPasswordLength   = "La contraseña debe tener al menos 6 caracteres"
	MsgUserRoleInvalid      = "El rol debe ser USER o ADMIN"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

const usersPath = "/users"

var UserFilters = []string{"role"}

// UserService manages accounts. Passwords are sent to the backend but never
// read back.
type UserService struct {
	api Requester
}

func NewUserService(api Requester) *UserService {
	return &UserService{api: api}
}

func (s *UserService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.User], error) {
	q, err := listQuery(params, UserFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.User]
	if err := s.api.Get(ctx, usersPath, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *UserService) Search(ctx context.Context, term string, params entities.ListParams) (*entities.Page[entities.User], error) {
	q, err := searchQuery(term, params, UserFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.User]
	if err := s.api.Get(ctx, usersPath+"/search", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if err := requireID(id, MsgUserIDRequired); err != nil {
		return nil, err
	}
	var user entities.User
	if err := s.api.Get(ctx, itemPath(usersPath, id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in entities.UserInput) (*entities.User, error) {
	if err := validation.First(
		validation.Required("username", in.Username, MsgUserUsernameRequired),
		validation.Required("email", in.Email, MsgUserEmailRequired),
		validateEmail(in.Email),
		validation.Required("password", in.Password, MsgUserPasswordRequired),
		validatePassword(in.Password),
		validation.OneOf("role", in.Role, entities.UserRoles, MsgUserRoleInvalid),
	); err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var user entities.User
	if err := s.api.Post(ctx, usersPath, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error) {
	if err := requireID(id, MsgUserIDRequired); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, validation.New("", validation.MsgEmptyPatch)
	}

	var errs []error
	errs = append(errs, validation.RequiredIfSet("username", patch.Username, MsgUserUsernameRequired))
	if patch.Email != nil {
		errs = append(errs,
			validation.Required("email", *patch.Email, MsgUserEmailRequired),
			validateEmail(*patch.Email))
	}
	if patch.Password != nil {
		errs = append(errs,
			validation.Required("password", *patch.Password, MsgUserPasswordRequired),
			validatePassword(*patch.Password))
	}
	if patch.Role != nil {
		errs = append(errs, validation.OneOf("role", *patch.Role, entities.UserRoles, MsgUserRoleInvalid))
	}
	if err := validation.First(errs...); err != nil {
		return nil, err
	}

	patch.Username = trimPtr(patch.Username)
	patch.Email = trimPtr(patch.Email)

	var user entities.User
	if err := s.api.Patch(ctx, itemPath(usersPath, id), patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgUserIDRequired); err != nil {
		return err
	}
	return s.api.Delete(ctx, itemPath(usersPath, id), nil)
}

func validateEmail(email string) error {
	if validation.IsBlank(email) || validation.IsValidEmail(strings.TrimSpace(email)) {
		return nil
	}
	return validation.New("email", MsgUserEmailInvalid)
}

func validatePassword(password string) error {
	if password == "" || utf8.RuneCountInString(password) >= MinPasswordLength {
		return nil
	}
	return validation.New("password", MsgUserPasswordLength)
}
