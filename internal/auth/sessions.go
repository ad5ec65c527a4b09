package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mrlokans/booknet/internal/config"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/guard"
	"github.com/mrlokans/booknet/internal/reader"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyRole     = "role"
	SessionKeyToken    = "backend_token"
	SessionKeyLoginAt  = "login_at"

	sessionKeyReaderPrefix = "reader:"
)

var ErrNoBackendToken = errors.New("session has no backend token")

func init() {
	gob.Register(entities.UserRole(""))
	gob.Register(time.Time{})
}

// TokenSealer encrypts the backend token kept in the session store.
type TokenSealer interface {
	Seal(plaintext, additional string) (string, error)
	Open(encoded, additional string) (string, error)
}

// SessionManager wraps scs.SessionManager with BookNet session data: the
// logged-in user, the sealed backend token and per-book reader state.
type SessionManager struct {
	*scs.SessionManager
	sealer TokenSealer
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth, sealer TokenSealer) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "booknet_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, sealer: sealer}, nil
}

// CreateSession stores a successful backend login. The session never
// outlives the backend token: when the token carries an exp claim, it
// becomes the session deadline.
func (sm *SessionManager) CreateSession(ctx context.Context, login *entities.LoginResult) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}

	sealed, err := sm.sealer.Seal(login.Token, login.User.Username)
	if err != nil {
		return fmt.Errorf("failed to seal backend token: %w", err)
	}

	sm.Put(ctx, SessionKeyUserID, login.User.ID)
	sm.Put(ctx, SessionKeyUsername, login.User.Username)
	sm.Put(ctx, SessionKeyRole, login.User.Role)
	sm.Put(ctx, SessionKeyToken, sealed)
	sm.Put(ctx, SessionKeyLoginAt, time.Now())

	if exp, ok := TokenExpiry(login.Token); ok {
		deadline := time.Now().Add(sm.Lifetime)
		if exp.Before(deadline) {
			sm.SetDeadline(ctx, exp)
		}
	}
	return nil
}

// DestroySession removes all session data, reader positions included.
func (sm *SessionManager) DestroySession(ctx context.Context) error {
	return sm.Destroy(ctx)
}

// Session returns the caller's authentication state.
func (sm *SessionManager) Session(ctx context.Context) guard.Session {
	userID := sm.GetString(ctx, SessionKeyUserID)
	if userID == "" {
		return guard.Anonymous
	}
	role, _ := sm.Get(ctx, SessionKeyRole).(entities.UserRole)
	return guard.Session{
		Authenticated: true,
		UserID:        userID,
		Username:      sm.GetString(ctx, SessionKeyUsername),
		Role:          role,
	}
}

// BackendToken opens the sealed backend token of the current session.
func (sm *SessionManager) BackendToken(ctx context.Context) (string, error) {
	sealed := sm.GetString(ctx, SessionKeyToken)
	if sealed == "" {
		return "", ErrNoBackendToken
	}
	return sm.sealer.Open(sealed, sm.GetString(ctx, SessionKeyUsername))
}

// SealedToken returns the backend token as stored, still sealed. Async
// tasks carry it and open it with the same key.
func (sm *SessionManager) SealedToken(ctx context.Context) string {
	return sm.GetString(ctx, SessionKeyToken)
}

func (sm *SessionManager) LoginAt(ctx context.Context) time.Time {
	t, _ := sm.Get(ctx, SessionKeyLoginAt).(time.Time)
	return t
}

// ReaderState returns the saved reader position for a book.
func (sm *SessionManager) ReaderState(ctx context.Context, bookID string) (reader.State, bool) {
	state, ok := sm.Get(ctx, sessionKeyReaderPrefix+bookID).(reader.State)
	return state, ok
}

func (sm *SessionManager) PutReaderState(ctx context.Context, state reader.State) {
	sm.Put(ctx, sessionKeyReaderPrefix+state.BookID, state)
}

func (sm *SessionManager) ClearReaderState(ctx context.Context, bookID string) {
	sm.Remove(ctx, sessionKeyReaderPrefix+bookID)
}

// TokenExpiry reads the exp claim of a JWT without verifying it. The
// backend verifies its own tokens; the claim only bounds the session.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
