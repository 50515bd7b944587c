package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	TokenAuth *jwtauth.JWTAuth
	tokenExp  = 72 * time.Hour
)

func InitJWT(secret []byte, exp time.Duration) *jwtauth.JWTAuth {
	TokenAuth = jwtauth.New("HS256", secret, nil)
	if exp > 0 {
		tokenExp = exp
	}
	return TokenAuth
}

func GenerateToken(userID, role string) (string, error) {
	if TokenAuth == nil {
		return "", errors.New("jwt is not initialised")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(tokenExp).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]any) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]any) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
