// Package readonly implements a maintenance switch that freezes catalog
// administration while the backend is being migrated or restored.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// MsgReadOnly is returned for every blocked write.
	MsgReadOnly = "La administración está en modo de solo lectura"

	CodeReadOnly = "read_only"

	// ContextKey holds the read-only flag for handlers that report it.
	ContextKey = "read_only"
)

// Middleware blocks write requests when enabled. Safe methods always pass,
// as do paths starting with one of the allowed prefixes.
type Middleware struct {
	enabled bool
	allowed []string
}

func NewMiddleware(enabled bool, allowed ...string) *Middleware {
	return &Middleware{enabled: enabled, allowed: allowed}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, m.enabled)

		if !m.enabled || isSafeMethod(c.Request.Method) || m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": MsgReadOnly,
			"code":  CodeReadOnly,
		})
	}
}

func (m *Middleware) isAllowedPath(path string) bool {
	for _, prefix := range m.allowed {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
