package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
)

const (
	MsgInvalidBody      = "El cuerpo de la solicitud no es válido"
	MsgInvalidLimit     = "El parámetro limit debe ser un número entero"
	MsgInvalidOffset    = "El parámetro offset debe ser un número entero"
	MsgBookNotInCatalog = "El libro no existe en el catálogo"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
// The UI shows Error in a dismissible alert.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: services.CodeValidation})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message, Code: services.CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: services.MsgInternal, Code: services.CodeInternal})
}

// respondServiceError maps an error returned by a service to a response.
// Backend and connection failures are logged with their cause.
func respondServiceError(c *gin.Context, err error, context string) {
	failure := services.Classify(err)
	if failure.Status >= http.StatusInternalServerError {
		var detail any = err
		var connErr *backend.ConnectionError
		if errors.As(err, &connErr) {
			detail = connErr.Detail()
		}
		log.Printf("[BACKEND] %s failed (request %s): %v", context, backend.RequestIDFrom(c.Request.Context()), detail)
	}
	c.JSON(failure.Status, ErrorResponse{Error: failure.Message, Code: failure.Code})
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseListParams reads limit, offset and the allowed filters from the
// query string. Range checks are left to the services.
func parseListParams(c *gin.Context, filters ...string) (entities.ListParams, bool) {
	var params entities.ListParams

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, MsgInvalidLimit)
			return params, false
		}
		params.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, MsgInvalidOffset)
			return params, false
		}
		params.Offset = offset
	}

	for _, name := range filters {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			if params.Filters == nil {
				params.Filters = make(map[string]string)
			}
			params.Filters[name] = v
		}
	}
	return params, true
}

// bindJSON decodes the request body or responds with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, MsgInvalidBody)
		return false
	}
	return true
}

// --- Middleware ---

// RequestIDMiddleware tags every request with an ID, taken from the
// X-Request-ID header when the caller sends one. The ID is echoed in the
// response and forwarded to the backend.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(backend.HeaderRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(backend.HeaderRequestID, id)
		c.Request = c.Request.WithContext(backend.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
