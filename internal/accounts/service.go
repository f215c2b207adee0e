package accounts

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields accepted at registration. The password
// arrives in plaintext exactly once and leaves as a bcrypt hash.
type RegisterInput struct {
	FullName  string
	Email     string
	Phone     string
	Password  string
	AvatarURL string
}

// UpdateInput carries the mutable profile fields. There is deliberately no
// password field: the update path can never touch the stored hash.
type UpdateInput struct {
	FullName  *string
	Email     *string
	Phone     *string
	AvatarURL *string
}

// Service handles account business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *ProfileCache
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, repo Repository, cache *ProfileCache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Register creates a new account. Email is case-normalized before the
// uniqueness check so the same address cannot register twice with different
// casing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        NormalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns one profile, served through the cache when available.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.cache.Fetch(ctx, id, func(ctx context.Context) (*User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// ListOthers returns every profile except the caller's own. An empty result
// is not an error.
func (s *Service) ListOthers(ctx context.Context, excludeID string) ([]User, error) {
	return s.repo.ListOthers(ctx, excludeID)
}

// Update applies the provided fields to an account and drops the cached
// profile. Fields left nil keep their stored value.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		user.Email = NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes an account and its cached profile.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("invalidate profile cache", slog.String("id", id), slog.Any("error", err))
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
