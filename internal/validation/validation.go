package validation

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/booknet/internal/entities"
)

// Messages shared by every entity service.
const (
	MsgEmptyPatch     = "Debe proporcionar al menos un campo para actualizar"
	MsgSearchTerm     = "El término de búsqueda es requerido"
	MsgLimitRange     = "El límite debe estar entre 1 y 100"
	MsgNegativeOffset = "El offset no puede ser negativo"
)

// DateLayout is the only accepted date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var (
	isbn10Pattern = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Pattern = regexp.MustCompile(`^\d{13}$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	validate = validator.New()
)

// Error is a validation failure raised before any network call.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a validation error for field.
func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a validation failure.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Required fails when value is blank.
func Required(field, value, message string) error {
	if IsBlank(value) {
		return New(field, message)
	}
	return nil
}

// RequiredIfSet fails when value is present but blank. A nil value passes.
func RequiredIfSet(field string, value *string, message string) error {
	if value != nil && IsBlank(*value) {
		return New(field, message)
	}
	return nil
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// IsValidISBN accepts ISBN-10 (last char may be X) and ISBN-13 digit
// patterns after hyphens and spaces are stripped. Checksums are not verified.
func IsValidISBN(isbn string) bool {
	isbn = NormalizeISBN(isbn)
	return isbn10Pattern.MatchString(isbn) || isbn13Pattern.MatchString(isbn)
}

// IsValidDate accepts YYYY-MM-DD strings that name a real calendar date.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

// ParseDate parses a date already accepted by IsValidDate.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsValidEmail checks the address format.
func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// IsValidURL checks that s is an absolute URL.
func IsValidURL(s string) bool {
	return validate.Var(s, "required,url") == nil
}

// IntRange fails when v is outside [lo, hi].
func IntRange(field string, v, lo, hi int, message string) error {
	if v < lo || v > hi {
		return New(field, message)
	}
	return nil
}

// OneOf fails when v is not in allowed.
func OneOf[T comparable](field string, v T, allowed []T, message string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return New(field, message)
}

// IDs checks an association list. With requireOne the list must hold at
// least one element; every element must be non-blank.
func IDs(field string, ids []string, requireOne bool, emptyMsg, blankMsg string) error {
	if requireOne && len(ids) == 0 {
		return New(field, emptyMsg)
	}
	for _, id := range ids {
		if IsBlank(id) {
			return New(field, blankMsg)
		}
	}
	return nil
}

// Pagination applies the default limit and rejects out-of-range values.
func Pagination(p entities.ListParams) (entities.ListParams, error) {
	if p.Limit == 0 {
		p.Limit = entities.DefaultLimit
	}
	if p.Limit < 1 || p.Limit > entities.MaxLimit {
		return p, New("limit", MsgLimitRange)
	}
	if p.Offset < 0 {
		return p, New("offset", MsgNegativeOffset)
	}
	return p, nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
