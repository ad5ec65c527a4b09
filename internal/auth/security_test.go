package auth

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/dashboard", true},
		{"/api/catalog?x=1", true},
		{"", false},
		{"dashboard", false},
		{"//evil.com", false},
		{"https://evil.com", false},
		{"/\\evil.com", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, isLocalPath(tc.path), tc.path)
	}
	assert.Equal(t, "/", sanitizeRedirectPath("//evil.com"))
	assert.Equal(t, "/libros", sanitizeRedirectPath("/libros"))
}

func TestLoginThrottle(t *testing.T) {
	lt := NewLoginThrottle(ThrottleConfig{MaxAttempts: 3, Window: time.Minute, LockoutDuration: time.Hour})
	defer lt.Stop()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lt.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		allowed, _ := lt.Allow("10.0.0.1", "admin")
		assert.True(t, allowed)
		locked, _ := lt.RecordFailure("10.0.0.1", "admin")
		assert.False(t, locked)
	}

	locked, retryAfter := lt.RecordFailure("10.0.0.1", "admin")
	assert.True(t, locked)
	assert.Equal(t, time.Hour, retryAfter)

	allowed, wait := lt.Allow("10.0.0.1", "admin")
	assert.False(t, allowed)
	assert.Equal(t, time.Hour, wait)

	allowed, _ = lt.Allow("10.0.0.1", "lector")
	assert.True(t, allowed, "other usernames are independent")
	allowed, _ = lt.Allow("10.0.0.2", "admin")
	assert.True(t, allowed, "other IPs are independent")

	lt.RecordSuccess("10.0.0.1", "admin")
	allowed, _ = lt.Allow("10.0.0.1", "admin")
	assert.True(t, allowed)

	// lockout expires on its own
	lt.RecordFailure("10.0.0.3", "admin")
	lt.RecordFailure("10.0.0.3", "admin")
	lt.RecordFailure("10.0.0.3", "admin")
	now = now.Add(time.Hour + time.Second)
	allowed, _ = lt.Allow("10.0.0.3", "admin")
	assert.True(t, allowed)
}

func TestLoginThrottle_IPBudget(t *testing.T) {
	lt := NewLoginThrottle(ThrottleConfig{MaxAttempts: 2, Window: time.Minute, LockoutDuration: time.Minute})
	defer lt.Stop()

	// one failure per username stays under each pair budget
	for i := 0; i < 2*ipAttemptFactor; i++ {
		lt.RecordFailure("10.0.0.9", fmt.Sprintf("user%d", i))
	}

	allowed, _ := lt.Allow("10.0.0.9", "otro")
	assert.False(t, allowed, "the address is locked across usernames")
	allowed, _ = lt.Allow("10.0.0.10", "otro")
	assert.True(t, allowed)
}

func TestLoginThrottle_LockoutShorterThanWindow(t *testing.T) {
	lt := NewLoginThrottle(ThrottleConfig{MaxAttempts: 2, Window: 15 * time.Minute, LockoutDuration: time.Minute})
	defer lt.Stop()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	lt.now = func() time.Time { return now }

	lt.RecordFailure("10.0.0.1", "admin")
	locked, _ := lt.RecordFailure("10.0.0.1", "admin")
	require.True(t, locked)

	now = start.Add(30 * time.Second)
	allowed, wait := lt.Allow("10.0.0.1", "admin")
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, wait)

	for _, after := range []time.Duration{2 * time.Minute, 5 * time.Minute, 14 * time.Minute} {
		now = start.Add(after)
		allowed, wait = lt.Allow("10.0.0.1", "admin")
		assert.True(t, allowed, "open again %s after the lockout started", after)
		assert.Zero(t, wait)
	}

	// the budget starts over after a served lockout
	locked, _ = lt.RecordFailure("10.0.0.1", "admin")
	assert.False(t, locked)
	allowed, _ = lt.Allow("10.0.0.1", "admin")
	assert.True(t, allowed)
	locked, wait = lt.RecordFailure("10.0.0.1", "admin")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, wait)
}

func TestLoginThrottle_Sweep(t *testing.T) {
	lt := NewLoginThrottle(ThrottleConfig{MaxAttempts: 5, Window: time.Minute, LockoutDuration: time.Minute})
	lt.Stop()
	lt.Stop()
	now := time.Now()
	lt.now = func() time.Time { return now }

	lt.RecordFailure("10.0.0.1", "admin")
	now = now.Add(2 * time.Minute)
	lt.sweep()

	assert.Empty(t, lt.pairs)
	assert.Empty(t, lt.ips)
}

func TestFormatRetryAfter(t *testing.T) {
	assert.Equal(t, "60", formatRetryAfter(time.Minute))
	assert.Equal(t, "2", formatRetryAfter(1500*time.Millisecond))
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "img-src 'self' data: https:")
	assert.Contains(t, rr.Header().Get("Permissions-Policy"), "camera=()")
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(31536000))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}
