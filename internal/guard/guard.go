// Package guard decides whether a session may reach a protected page or
// endpoint. It has no knowledge of HTTP; the auth middleware adapts its
// decisions to redirects and status codes.
package guard

import "github.com/mrlokans/booknet/internal/entities"

// Requirements are the access flags of a route.
type Requirements struct {
	RequireAuth  bool
	RequireAdmin bool
}

var (
	Public        = Requirements{}
	Authenticated = Requirements{RequireAuth: true}
	AdminOnly     = Requirements{RequireAuth: true, RequireAdmin: true}
)

// Session is the caller's authentication state.
type Session struct {
	Authenticated bool
	UserID        string
	Username      string
	Role          entities.UserRole
}

// Anonymous is the session of a caller who has not logged in.
var Anonymous = Session{}

func (s Session) IsAdmin() bool {
	return s.Authenticated && s.Role == entities.UserRoleAdmin
}

// Decision is the outcome of Check.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Login means the caller must authenticate first.
	Login
	// Forbidden means the caller is authenticated but lacks the role.
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Login:
		return "login"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Check evaluates req against session. RequireAdmin implies RequireAuth.
func Check(session Session, req Requirements) Decision {
	if !req.RequireAuth && !req.RequireAdmin {
		return Allow
	}
	if !session.Authenticated {
		return Login
	}
	if req.RequireAdmin && !session.IsAdmin() {
		return Forbidden
	}
	return Allow
}
