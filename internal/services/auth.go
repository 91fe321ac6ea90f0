package services

import (
	"context"
	"strings"
	"time"

	"communityevents/internal/domain"
)

// AdminCredentials holds the provisioned admin account. The password is
// stored as a bcrypt hash in configuration, never in plain text.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type authService struct {
	admin       AdminCredentials
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService for the provisioned admin account.
func NewAuthService(admin AdminCredentials, hasher domain.PasswordHasher, issuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		admin:       admin,
		hasher:      hasher,
		tokenIssuer: issuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", domain.ErrUnauthorized
	}
	if !strings.EqualFold(email, s.admin.Email) {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(s.admin.PasswordHash, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.tokenIssuer.Issue("admin", email, s.tokenExpiry)
	if err != nil {
		return "", err
	}
	return token, nil
}
