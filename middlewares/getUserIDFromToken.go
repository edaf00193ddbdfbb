package middlewares

import (
	"fmt"
	"strings"

	"tavernserver/auth"
	"tavernserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// リクエストからJWTトークンを取得し、クレームを解析して返します。
func ClaimsFromRequest(c *gin.Context, logger *zap.Logger) (*models.MyClaims, error) {
	// トークンをリクエストヘッダーから取得
	tokenString := c.GetHeader("Authorization")

	// Bearerトークンのプレフィックスを確認し、存在する場合は削除
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}

	if tokenString == "" {
		return nil, fmt.Errorf("token is required")
	}

	// JWTトークンの解析
	claims := &models.MyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return auth.JwtKey, nil
	})
	if err != nil {
		logger.Error("Failed to parse JWT token", zap.Error(err))
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetUserIDFromToken はリクエストのトークンからユーザーIDだけを取り出します。
func GetUserIDFromToken(c *gin.Context, logger *zap.Logger) (uint, error) {
	claims, err := ClaimsFromRequest(c, logger)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
