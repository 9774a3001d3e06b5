package ports

import (
	"context"
	"time"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
)

// RegisterInput is the service-level DTO for registration.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       string
	Nationality string
	DateOfBirth *time.Time
}

// UserSummary is the trimmed user payload returned by register and login.
type UserSummary struct {
	ID              string              `json:"id"`
	FirstName       string              `json:"first_name"`
	LastName        string              `json:"last_name"`
	Email           string              `json:"email"`
	Role            string              `json:"role"`
	IsEmailVerified bool                `json:"is_email_verified"`
	Preferences     *domain.Preferences `json:"preferences,omitempty"`
}

// LoginResult bundles the user summary with a fresh token pair.
type LoginResult struct {
	User         UserSummary `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
}

// TokenPair is the result of a refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountService is the public surface of the authentication and
// account-security subsystem.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*UserSummary, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, fields ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
