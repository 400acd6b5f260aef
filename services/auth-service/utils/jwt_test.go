package utils_test

import (
	"fmt"
	"testing"

	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/services/auth-service/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/gt"
)

func parseClaims(t *testing.T, tokenString string) *middleware.StaffClaims {
	t.Helper()
	token, err := jwt.ParseWithClaims(tokenString, &middleware.StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return middleware.JWTSecret(), nil
	})
	gt.NoError(t, err)
	gt.True(t, token.Valid)
	claims, ok := token.Claims.(*middleware.StaffClaims)
	gt.True(t, ok)
	return claims
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	tokenString, err := utils.GenerateJWT("user-123", "agent@helpdesk.example", "Agent Smith", "support_agent")
	gt.NoError(t, err)

	claims := parseClaims(t, tokenString)
	gt.Equal(t, claims.UserID, "user-123")
	gt.Equal(t, claims.Email, "agent@helpdesk.example")
	gt.Equal(t, claims.Name, "Agent Smith")
	gt.Equal(t, claims.Role, "support_agent")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple")
	gt.NoError(t, err)
	gt.NotEqual(t, hash, "correct horse battery staple")

	gt.True(t, utils.CheckPasswordHash("correct horse battery staple", hash))
	gt.False(t, utils.CheckPasswordHash("wrong password", hash))
}
