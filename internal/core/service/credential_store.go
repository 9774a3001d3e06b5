package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

// CredentialStore wraps the user repository and owns password hashing: raw
// passwords are hashed on the way in and never cross the repository
// boundary. Hashing only happens here, on the two paths where a raw password
// actually enters the system, so an already-hashed value can never be hashed
// twice.
type CredentialStore struct {
	ports.UserRepository
	hasher *PasswordHasher
}

func NewCredentialStore(repo ports.UserRepository, hasher *PasswordHasher) *CredentialStore {
	if hasher == nil {
		hasher = NewPasswordHasher(DefaultBcryptCost)
	}
	return &CredentialStore{UserRepository: repo, hasher: hasher}
}

// Create persists a new account. user.Password arrives raw and is replaced
// with its bcrypt hash before the insert; the email is normalised to
// lowercase.
func (s *CredentialStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if len(user.Password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	return s.UserRepository.Create(ctx, user)
}

// SetPassword rehashes and persists a new password. The repository clears
// any pending reset token in the same update.
func (s *CredentialStore) SetPassword(ctx context.Context, id, raw string) error {
	if len(raw) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	hash, err := s.hasher.Hash(raw)
	if err != nil {
		return err
	}
	return s.UserRepository.UpdatePassword(ctx, id, hash)
}

// VerifyPassword reports whether raw matches the stored hash.
func (s *CredentialStore) VerifyPassword(hash, raw string) bool {
	return s.hasher.Compare(hash, raw)
}
