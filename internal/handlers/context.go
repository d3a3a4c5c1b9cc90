package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/middleware"
)

// requestContext returns the context to pass down to services.
func requestContext(c *gin.Context) context.Context {
	return c.Request.Context()
}

// currentUserID reads the authenticated user's id set by the auth
// middleware. Empty means the route was not token-gated.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
