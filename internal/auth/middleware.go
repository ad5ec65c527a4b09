package auth

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/guard"
)

// Context keys for user data
const (
	ContextKeySession = "auth_session"
)

const (
	MsgAuthRequired = "Debe iniciar sesión para continuar"
	MsgForbidden    = "No tiene permisos para realizar esta acción"
)

// Middleware resolves the caller's session and enforces route guards.
type Middleware struct {
	sessions *SessionManager
}

func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handler loads the guard session into the gin context and attaches the
// backend token to the request context. A session whose token cannot be
// opened is destroyed and the caller continues anonymously.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		session := m.sessions.Session(ctx)

		if session.Authenticated {
			token, err := m.sessions.BackendToken(ctx)
			if err != nil {
				log.Printf("Dropping session of %s: %v", session.Username, err)
				_ = m.sessions.DestroySession(ctx)
				session = guard.Anonymous
			} else {
				c.Request = c.Request.WithContext(backend.WithToken(ctx, token))
			}
		}

		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// Require enforces req on a route or group. Unauthenticated page requests
// are redirected to the login page; API requests get a JSON error.
func (m *Middleware) Require(req guard.Requirements) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch guard.Check(GetSession(c), req) {
		case guard.Allow:
			c.Next()
		case guard.Login:
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgAuthRequired, "code": "unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
		case guard.Forbidden:
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MsgForbidden, "code": "forbidden"})
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
		}
	}
}

// isAPIRequest determines if this is an API request vs web browser request.
func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// GetSession returns the session resolved by Handler, or Anonymous.
func GetSession(c *gin.Context) guard.Session {
	if v, exists := c.Get(ContextKeySession); exists {
		if session, ok := v.(guard.Session); ok {
			return session
		}
	}
	return guard.Anonymous
}

// Actor describes the caller for audit records.
func Actor(c *gin.Context) audit.Actor {
	session := GetSession(c)
	return audit.Actor{UserID: session.UserID, Username: session.Username, IP: c.ClientIP()}
}
