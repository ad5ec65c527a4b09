package auth

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/config"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
)

const (
	MsgTooManyAttempts = "Demasiados intentos de inicio de sesión. Intente de nuevo más tarde."
	MsgSessionFailed   = "No se pudo crear la sesión"
	MsgInvalidBody     = "El cuerpo de la solicitud no es válido"
)

// LoginService exchanges credentials for a backend token.
type LoginService interface {
	Login(ctx context.Context, creds entities.Credentials) (*entities.LoginResult, error)
}

// AuthAuditor records logins and logouts.
type AuthAuditor interface {
	LogAuth(actor audit.Actor, action string, success bool)
}

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
func isLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController handles login, logout and session introspection.
type AuthController struct {
	logins   LoginService
	sessions *SessionManager
	throttle *LoginThrottle
	auditor  AuthAuditor
}

func NewAuthController(logins LoginService, sessions *SessionManager, auditor AuthAuditor, cfg config.Auth) *AuthController {
	return &AuthController{
		logins:   logins,
		sessions: sessions,
		auditor:  auditor,
		throttle: NewLoginThrottle(ThrottleConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			Window:          cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/api/session", ac.Session)
}

// Stop ends the login throttle's sweeper.
func (ac *AuthController) Stop() {
	ac.throttle.Stop()
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

// SessionResponse describes the logged-in user to the UI.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	UserID        string            `json:"user_id,omitempty"`
	Username      string            `json:"username,omitempty"`
	Role          entities.UserRole `json:"role,omitempty"`
	IsAdmin       bool              `json:"is_admin"`
	LoginAt       *time.Time        `json:"login_at,omitempty"`
	Next          string            `json:"next,omitempty"`
}

// Login handles POST /login with a JSON or form body.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody, "code": services.CodeBadRequest})
		return
	}

	username := strings.TrimSpace(req.Username)
	clientIP := c.ClientIP()
	actor := audit.Actor{Username: username, IP: clientIP}

	if allowed, retryAfter := ac.throttle.Allow(clientIP, username); !allowed {
		c.Header("Retry-After", formatRetryAfter(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": MsgTooManyAttempts, "code": services.CodeRateLimited})
		return
	}

	result, err := ac.logins.Login(c.Request.Context(), entities.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		failure := services.Classify(err)
		if failure.Status == http.StatusUnauthorized || failure.Status == http.StatusBadRequest {
			ac.throttle.RecordFailure(clientIP, username)
			ac.logAuth(actor, "login", false)
		}
		c.JSON(failure.Status, gin.H{"error": failure.Message, "code": failure.Code})
		return
	}

	ac.throttle.RecordSuccess(clientIP, username)

	if err := ac.sessions.CreateSession(c.Request.Context(), result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgSessionFailed, "code": services.CodeInternal})
		return
	}

	actor.UserID = result.User.ID
	ac.logAuth(actor, "login", true)

	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		UserID:        result.User.ID,
		Username:      result.User.Username,
		Role:          result.User.Role,
		IsAdmin:       result.User.IsAdmin(),
		Next:          sanitizeRedirectPath(req.Next),
	})
}

// Logout destroys the session.
func (ac *AuthController) Logout(c *gin.Context) {
	session := GetSession(c)
	if err := ac.sessions.DestroySession(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgSessionFailed, "code": services.CodeInternal})
		return
	}
	if session.Authenticated {
		ac.logAuth(Actor(c), "logout", true)
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// Session handles GET /api/session.
func (ac *AuthController) Session(c *gin.Context) {
	session := GetSession(c)
	if !session.Authenticated {
		c.JSON(http.StatusOK, SessionResponse{})
		return
	}

	resp := SessionResponse{
		Authenticated: true,
		UserID:        session.UserID,
		Username:      session.Username,
		Role:          session.Role,
		IsAdmin:       session.IsAdmin(),
	}
	if loginAt := ac.sessions.LoginAt(c.Request.Context()); !loginAt.IsZero() {
		resp.LoginAt = &loginAt
	}
	c.JSON(http.StatusOK, resp)
}

func (ac *AuthController) logAuth(actor audit.Actor, action string, success bool) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(actor, action, success)
	}
}

// formatRetryAfter renders d as whole seconds for the Retry-After header.
func formatRetryAfter(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
