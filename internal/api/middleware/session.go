package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/service"
)

const SessionCookie = "session_token"

// SessionToken copies the caller's token, if any, into the request context.
// Whether the token is valid is decided by the Guard of each handler.
func SessionToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := extractToken(ctx); token != "" {
			ctx.Request = ctx.Request.WithContext(service.WithSessionToken(ctx.Request.Context(), token))
		}

		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := ctx.Cookie(SessionCookie); err == nil {
		return cookie
	}

	return ""
}
