package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/guard"
	"github.com/mrlokans/booknet/internal/services"
	"github.com/mrlokans/booknet/internal/validation"
)

var (
	adminSession  = guard.Session{Authenticated: true, UserID: "u1", Username: "admin", Role: entities.UserRoleAdmin}
	readerSession = guard.Session{Authenticated: true, UserID: "u2", Username: "lector", Role: entities.UserRoleUser}
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withSession stands in for the auth middleware.
func withSession(session guard.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeySession, session)
		c.Next()
	}
}

func performRequest(t *testing.T, router http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return performRequest(t, router, method, path, r, nil)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		ok      bool
		want    entities.ListParams
		wantErr string
	}{
		{name: "empty", query: "", ok: true},
		{name: "limit and offset", query: "?limit=20&offset=40", ok: true, want: entities.ListParams{Limit: 20, Offset: 40}},
		{
			name:  "known filters kept",
			query: "?nacionalidad=%20Espa%C3%B1ola%20&color=rojo",
			ok:    true,
			want:  entities.ListParams{Filters: map[string]string{"nacionalidad": "Española"}},
		},
		{name: "blank filter dropped", query: "?nacionalidad=%20", ok: true},
		{name: "bad limit", query: "?limit=diez", wantErr: MsgInvalidLimit},
		{name: "bad offset", query: "?offset=-x", wantErr: MsgInvalidOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entities.ListParams
			var ok bool
			router := gin.New()
			router.GET("/list", func(c *gin.Context) {
				got, ok = parseListParams(c, "nacionalidad")
				if ok {
					c.Status(http.StatusOK)
				}
			})

			w := performJSON(t, router, http.MethodGet, "/list"+tt.query, "")

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w).Error)
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        validation.New("nombre", services.MsgAuthorNameRequired),
			wantStatus: http.StatusBadRequest,
			wantCode:   services.CodeValidation,
			wantMsg:    services.MsgAuthorNameRequired,
		},
		{
			name:       "backend not found",
			err:        &backend.APIError{Status: http.StatusNotFound, Message: "Autor no encontrado"},
			wantStatus: http.StatusNotFound,
			wantCode:   services.CodeNotFound,
			wantMsg:    "Autor no encontrado",
		},
		{
			name:       "connection",
			err:        &backend.ConnectionError{Cause: errors.New("dial tcp: refused")},
			wantStatus: http.StatusBadGateway,
			wantCode:   services.CodeConnection,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   services.CodeInternal,
			wantMsg:    services.MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/fail", func(c *gin.Context) { respondServiceError(c, tt.err, "test") })

			w := performJSON(t, router, http.MethodGet, "/fail", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error)
			}
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		seen = backend.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/", nil, map[string]string{backend.HeaderRequestID: "req-42"})
		assert.Equal(t, "req-42", w.Header().Get(backend.HeaderRequestID))
		assert.Equal(t, "req-42", seen)
	})

	t.Run("generates id when missing or oversized", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/", nil, map[string]string{backend.HeaderRequestID: strings.Repeat("x", 65)})
		id := w.Header().Get(backend.HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})
}
