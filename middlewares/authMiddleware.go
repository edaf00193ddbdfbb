package middlewares

import (
	"net/http"

	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthRequired はトークンを検証し、クレームをコンテキストに積むミドルウェアです。
func AuthRequired(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ClaimsFromRequest(c, logger)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "token_validation_error",
				"error":  "認証に失敗しました",
			})
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminRequired は管理者ロールを要求するミドルウェアです。AuthRequiredの後段で使います。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "forbidden",
				"error":  "管理者権限が必要です",
			})
			return
		}
		c.Next()
	}
}
