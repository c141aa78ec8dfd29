package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/core/auth"
	"go-cms-backend/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 校验 Bearer token；requireRole 非空时额外限定角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			response.AbortFail(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			response.AbortFail(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
