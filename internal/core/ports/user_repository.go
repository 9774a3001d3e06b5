package ports

import (
	"context"
	"time"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
)

// ProfileUpdate carries the fields a user may change through updatedetails.
// Nil pointers mean "leave as is". Password, role, and security counters are
// deliberately absent.
type ProfileUpdate struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	Nationality      *string
	DateOfBirth      *time.Time
	Language         *string
	Currency         *string
	Interests        *[]string
	Budget           *domain.Budget
	EmergencyContact *domain.EmergencyContact
}

// UserRepository defines the persistence contract for accounts. Password
// values crossing this interface are always bcrypt hashes; hashing happens
// in the credential store above it. Every login-guard mutation must execute
// as a single atomic update so concurrent failed logins cannot lose counts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string, includePassword bool) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, fields ProfileUpdate) (*domain.User, error)

	// UpdatePassword persists a new password hash and clears any pending
	// reset token in the same update.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	SetVerificationToken(ctx context.Context, id, tokenHash string, expire time.Time) error
	ClearVerificationToken(ctx context.Context, id string) error
	MarkEmailVerified(ctx context.Context, id string) error
	FindByVerificationTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	SetResetToken(ctx context.Context, id, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	// RecordFailedLogin increments the attempt counter and, when the counter
	// reaches threshold with no active lock, sets lock_until = now+lockFor in
	// the same atomic update. An expired lock restarts the counter at 1.
	RecordFailedLogin(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) error
	ResetLoginAttempts(ctx context.Context, id string) error
	SetLastLogin(ctx context.Context, id string, now time.Time) error
}
