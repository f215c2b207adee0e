package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/parleyhq/parley/internal/accounts"
	"github.com/parleyhq/parley/internal/shared"
)

// Service wraps credential verification.
type Service struct {
	repo accounts.Repository
}

// NewService constructs a new Service.
func NewService(repo accounts.Repository) *Service {
	return &Service{repo: repo}
}

// VerifyCredentials validates email/password credentials. An unknown email
// and a wrong password return the same error so the response never reveals
// whether the account exists. Store faults propagate unchanged and surface
// as internal errors, never as a rejection that looks like bad credentials.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*accounts.User, error) {
	user, err := s.repo.FindByEmail(ctx, accounts.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
