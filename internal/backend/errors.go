package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// MsgRequestFailed is used when the backend rejects a request without a message.
const MsgRequestFailed = "Error en la solicitud al servidor"

// ErrConnection is the generic failure shown when the backend cannot be
// reached or answers with something that is not an envelope.
var ErrConnection = errors.New("Error de conexión con el servidor")

// APIError is a non-success envelope returned by the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ConnectionError wraps transport and decoding failures. Its message is
// always the generic ErrConnection text; the cause is kept for logging.
type ConnectionError struct {
	Status int // HTTP status when a response arrived, 0 otherwise
	Cause  error
}

func (e *ConnectionError) Error() string {
	return ErrConnection.Error()
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Cause}
}

// Detail returns the underlying cause for logs.
func (e *ConnectionError) Detail() string {
	if e.Status > 0 {
		return fmt.Sprintf("HTTP %d: %v", e.Status, e.Cause)
	}
	return fmt.Sprint(e.Cause)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return connErr.Status
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether the backend rejected the caller's token.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
