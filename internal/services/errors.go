package services

import (
	"errors"
	"net/http"

	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/validation"
)

// Error codes sent to the UI next to the message.
const (
	CodeValidation   = "validation"
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeBackend      = "backend_error"
	CodeConnection   = "connection_error"
	CodeInternal     = "internal_error"
)

const MsgInternal = "Error interno del servidor"

// Failure is how an error returned by a service is shown to the caller.
type Failure struct {
	Status  int
	Code    string
	Message string
}

// Classify maps a service error to an HTTP status, a code and a message.
// Server messages are passed through. A failing backend becomes 502 so that
// our own 5xx range only covers local faults.
func Classify(err error) Failure {
	if validation.IsValidationError(err) {
		return Failure{Status: http.StatusBadRequest, Code: CodeValidation, Message: err.Error()}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 500 || apiErr.Status < 400 {
			return Failure{Status: http.StatusBadGateway, Code: CodeBackend, Message: apiErr.Message}
		}
		return Failure{Status: apiErr.Status, Code: codeForStatus(apiErr.Status), Message: apiErr.Message}
	}

	if errors.Is(err, backend.ErrConnection) {
		return Failure{Status: http.StatusBadGateway, Code: CodeConnection, Message: backend.ErrConnection.Error()}
	}

	return Failure{Status: http.StatusInternalServerError, Code: CodeInternal, Message: MsgInternal}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeBadRequest
	}
}
