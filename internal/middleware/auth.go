package middleware

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/httpx"
	"github.com/gin-gonic/gin"
)

// JWTAuth requires a valid bearer token and puts its user on the request context.
func JWTAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == header {
			httpx.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		claims, err := tm.ParseToken(token)
		if err != nil {
			httpx.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), claims.User()))
		c.Next()
	}
}

// RequireRoles lets the request through only for the given roles. It must run after JWTAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.GetUser(c.Request.Context())
		if !ok {
			httpx.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		httpx.Abort(c, http.StatusForbidden, "forbidden", nil)
	}
}
