// Package middleware – viewer identity resolution.
//
// This file resolves the acting user of a request. Authentication proper
// (credentials, sessions, tokens) lives at the edge; the backend trusts an
// upstream-injected X-User-ID header. An absent or blank header means the
// request is anonymous, which is a fully supported state: reads succeed
// with viewer-relative flags forced to false, and writes are rejected by
// RequireViewer().
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// ViewerKey is the Gin context key under which the viewer ID is stored.
	// An empty string means anonymous.
	ViewerKey = "userID"
	// viewerHeader is the trusted upstream header carrying the user ID.
	viewerHeader = "X-User-ID"
)

// Identity extracts the viewer ID from X-User-ID and stores it in the Gin
// context. It never rejects: anonymous requests simply carry an empty
// viewer ID. Place before Logger() so access logs include the viewer.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ViewerKey, c.GetHeader(viewerHeader))
		c.Next()
	}
}

// Viewer returns the viewer ID resolved by Identity(), or "" when the
// request is anonymous (or Identity never ran).
func Viewer(c *gin.Context) string {
	if v, ok := c.Get(ViewerKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireViewer aborts anonymous requests with a JSON 401. Install it on
// route groups whose operations mutate viewer-owned state (recipe writes,
// favorites, cart, subscriptions).
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Next()
	}
}
