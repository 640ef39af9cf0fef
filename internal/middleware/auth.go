package middleware

import (
	"log"
	"net/http"
	"strings"

	"bookpoint/internal/pkg/response"
	"bookpoint/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the Bearer access token and puts the identity claims on
// the context. The token is never looked up in storage; revocation only
// applies to refresh tokens. Every failure collapses to a 401 for the
// caller; the concrete cause is only logged.
func JWTAuth(signer *token.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			c.Abort()
			return
		}

		claims, err := signer.Validate(tokenStr)
		if err != nil {
			log.Printf("access token rejected: path=%s err=%v", c.Request.URL.Path, err)
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}
