package auth

import (
	"os"

	"tavernserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// JwtKey はトークン署名用のシークレットです。環境変数JWT_KEYで設定します。
var JwtKey = []byte(os.Getenv("JWT_KEY"))

// IsValidToken はトークン文字列の有効性を検証します。
func IsValidToken(tokenString string) (bool, error) {
	claims := &models.MyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})

	if err != nil {
		return false, err
	}

	return token.Valid, nil
}
