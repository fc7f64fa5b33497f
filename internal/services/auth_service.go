package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/luckydip/raffle-backend/internal/config"
	"github.com/luckydip/raffle-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned for any login failure; the reason is
// deliberately not disclosed to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles administrator login and token minting
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// Login verifies the administrator credentials and mints a JWT
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email != s.cfg.Admin.Email {
		slog.Warn("Login rejected: unknown email", "email", req.Email)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Login rejected: bad password", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	expiresIn := s.cfg.JWT.ExpiresIn
	claims := jwt.MapClaims{
		"sub":   req.Email,
		"email": req.Email,
		"role":  "admin",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, errors.New("failed to sign token")
	}

	slog.Info("Administrator logged in", "email", req.Email)
	return &models.LoginResponse{Token: signed, ExpiresIn: expiresIn}, nil
}
