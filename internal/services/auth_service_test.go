package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/luckydip/raffle-backend/internal/config"
	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-signing-key", ExpiresIn: 3600},
		Admin: config.AdminConfig{
			Email:        "admin@example.com",
			PasswordHash: string(hash),
		},
	}
}

func TestLogin(t *testing.T) {
	cfg := authConfig(t)
	svc := NewAuthService(cfg)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.ExpiresIn)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := NewAuthService(authConfig(t))

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := NewAuthService(authConfig(t))

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "mallory@example.com",
		Password: "s3cret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
