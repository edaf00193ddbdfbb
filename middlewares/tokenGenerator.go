package middlewares

import (
	"time"

	"tavernserver/auth"
	"tavernserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// GenerateToken はユーザーIDとロールを内包したJWTトークンを発行します。
func GenerateToken(userID uint, role string) (string, error) {
	expirationTime := time.Now().Add(72 * time.Hour)

	// JWTトークン生成時に内包するデータ
	claims := &models.MyClaims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(auth.JwtKey)
}
