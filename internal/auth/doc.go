// Package auth keeps BookNet sessions and guards routes.
//
// Users authenticate against the backend: POST /login forwards the
// credentials to the backend login endpoint and stores the returned user
// and token in a server-side scs session (SQLite store). The token is
// sealed with a key derived from AUTH_SESSION_SECRET and is only opened
// for the duration of a request, where it is attached to the request
// context for the backend client.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<base64-32-bytes>  # Generated per process if empty
//	AUTH_SESSION_LIFETIME=24h              # Upper bound; a token exp claim may shorten it
//	AUTH_SECURE_COOKIES=true               # HTTPS-only cookies
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//
// # Usage
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth, tokenSealer)
//	mw := auth.NewMiddleware(sessions)
//	router.Use(sessions.SessionLoadSave(), mw.Handler())
//	admin := router.Group("/api/admin", mw.Require(guard.AdminOnly))
//
// Read the caller in handlers:
//
//	session := auth.GetSession(c)
package auth
