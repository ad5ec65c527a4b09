package services

import (
	"context"
	"strings"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgLoginUsernameRequired = "El nombre de usuario es requerido"
	MsgLoginPasswordRequired = "La contraseña es requerida"
)

// AuthService exchanges credentials for a backend token.
type AuthService struct {
	api Requester
}

func NewAuthService(api Requester) *AuthService {
	return &AuthService{api: api}
}

// Login posts credentials to the backend and returns its token and user.
func (s *AuthService) Login(ctx context.Context, creds entities.Credentials) (*entities.LoginResult, error) {
	if err := validation.First(
		validation.Required("username", creds.Username, MsgLoginUsernameRequired),
		validation.Required("password", creds.Password, MsgLoginPasswordRequired),
	); err != nil {
		return nil, err
	}

	creds.Username = strings.TrimSpace(creds.Username)

	var result entities.LoginResult
	if err := s.api.Post(ctx, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the user owning the token carried by ctx.
func (s *AuthService) Me(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := s.api.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
