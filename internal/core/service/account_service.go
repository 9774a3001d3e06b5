package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

// AccountConfig tunes the login guard and outbound email links.
type AccountConfig struct {
	MaxLoginAttempts int           // failed attempts before lockout
	LockDuration     time.Duration // lockout window
	FrontendURL      string        // base for verification/reset links
}

// AccountService implements registration, login with brute-force lockout,
// profile management, password reset, email verification, and token refresh.
type AccountService struct {
	store    *CredentialStore
	codec    *TokenCodec
	sessions *SessionIssuer
	notifier ports.Notifier
	events   ports.EventPublisher
	clock    ports.Clock
	cfg      AccountConfig
	log      zerolog.Logger
}

func NewAccountService(
	store *CredentialStore,
	codec *TokenCodec,
	sessions *SessionIssuer,
	notifier ports.Notifier,
	events ports.EventPublisher,
	clock ports.Clock,
	cfg AccountConfig,
	log zerolog.Logger,
) *AccountService {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 5
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = 2 * time.Hour
	}
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &AccountService{
		store:    store,
		codec:    codec,
		sessions: sessions,
		notifier: notifier,
		events:   events,
		clock:    clock,
		cfg:      cfg,
		log:      log,
	}
}

// Register creates an unverified account and emails a verification link. If
// the email cannot be delivered the pending token is cleared and the request
// fails, but the account itself remains created.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserSummary, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.store.FindByEmail(ctx, email, false); err == nil && existing != nil {
		return nil, domain.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user := &domain.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		Password:    in.Password,
		Phone:       in.Phone,
		Nationality: in.Nationality,
		DateOfBirth: in.DateOfBirth,
		Role:        domain.RoleUser,
		Preferences: domain.DefaultPreferences(),
		IsActive:    true,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	issued, err := s.codec.Issue(VerificationTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetVerificationToken(ctx, created.ID, issued.Hash, issued.ExpiresAt); err != nil {
		return nil, err
	}

	body := verificationEmailBody(s.cfg.FrontendURL, issued.Plaintext)
	if err := s.notifier.Send(ctx, created.Email, verificationSubject, body); err != nil {
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("verification email failed, clearing token")
		if clearErr := s.store.ClearVerificationToken(ctx, created.ID); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("user_id", created.ID).Msg("failed to clear verification token")
		}
		return nil, domain.ErrEmailDelivery
	}

	s.publish(ctx, ports.AccountEvent{Type: ports.EventAccountRegistered, UserID: created.ID, Email: created.Email})
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	return summarize(created, false), nil
}

// Login authenticates by email and password. The lock check runs before the
// password check: a locked account rejects even the correct password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), true)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.clock.Now()
	if user.IsLocked(now) {
		return nil, domain.ErrAccountLocked
	}

	if !s.store.VerifyPassword(user.Password, password) {
		if recErr := s.store.RecordFailedLogin(ctx, user.ID, s.cfg.MaxLoginAttempts, s.cfg.LockDuration, now); recErr != nil {
			s.log.Warn().Err(recErr).Str("user_id", user.ID).Msg("failed to record login attempt")
		} else if s.attemptLocksAccount(user, now) {
			s.log.Warn().Str("user_id", user.ID).Msg("account locked after repeated failed logins")
			s.publish(ctx, ports.AccountEvent{Type: ports.EventAccountLocked, UserID: user.ID, Email: user.Email})
		}
		return nil, domain.ErrInvalidCredentials
	}

	if user.LoginAttempts > 0 || user.LockUntil != nil {
		if resetErr := s.store.ResetLoginAttempts(ctx, user.ID); resetErr != nil {
			s.log.Warn().Err(resetErr).Str("user_id", user.ID).Msg("failed to reset login attempts")
		}
	}
	if err := s.store.SetLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to set last login")
	}

	token, err := s.sessions.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sessions.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login successful")

	summary := summarize(user, true)
	return &ports.LoginResult{User: *summary, Token: token, RefreshToken: refresh}, nil
}

// Logout is a no-op: tokens are not blacklisted, they simply expire.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	s.log.Debug().Str("user_id", userID).Msg("logout")
	return nil
}

// GetProfile returns the account without its secret fields.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.FindByID(ctx, userID)
}

// UpdateProfile merges the permitted profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, fields ports.ProfileUpdate) (*domain.User, error) {
	if fields.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*fields.Email))
		fields.Email = &normalized
	}
	return s.store.UpdateProfile(ctx, userID, fields)
}

// UpdatePassword verifies the current password, persists the new hash, and
// returns a fresh access token.
func (s *AccountService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	user, err := s.store.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return "", err
	}
	if !s.store.VerifyPassword(user.Password, currentPassword) {
		return "", domain.ErrIncorrectPassword
	}
	if err := s.store.SetPassword(ctx, user.ID, newPassword); err != nil {
		return "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password updated")
	return s.sessions.IssueAccessToken(user.ID, user.Role)
}

// ForgotPassword issues a reset token and emails the reset link. A missing
// account is reported as not found; this reveals account existence, matching
// the documented behavior.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), false)
	if err != nil {
		return err
	}

	issued, err := s.codec.Issue(ResetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.store.SetResetToken(ctx, user.ID, issued.Hash, issued.ExpiresAt); err != nil {
		return err
	}

	body := resetEmailBody(s.cfg.FrontendURL, issued.Plaintext)
	if err := s.notifier.Send(ctx, user.Email, resetSubject, body); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("reset email failed, clearing token")
		if clearErr := s.store.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("user_id", user.ID).Msg("failed to clear reset token")
		}
		return domain.ErrEmailDelivery
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset email sent")
	return nil
}

// ResetPassword consumes a reset token, sets the new password, and returns a
// fresh access token. The token is single-use: the stored verifier is
// cleared in the same update that persists the new hash.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	user, err := s.store.FindByResetTokenHash(ctx, HashToken(token), s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}

	if err := s.store.SetPassword(ctx, user.ID, newPassword); err != nil {
		return "", err
	}

	s.publish(ctx, ports.AccountEvent{Type: ports.EventAccountPasswordReset, UserID: user.ID, Email: user.Email})
	s.log.Info().Str("user_id", user.ID).Msg("password reset successful")

	return s.sessions.IssueAccessToken(user.ID, user.Role)
}

// VerifyEmail consumes a verification token and marks the email verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.store.FindByVerificationTokenHash(ctx, HashToken(token), s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	if err := s.store.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// Refresh validates a refresh token and mints a brand-new pair.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingToken
	}

	userID, err := s.sessions.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	token, err := s.sessions.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sessions.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &ports.TokenPair{Token: token, RefreshToken: refresh}, nil
}

// attemptLocksAccount mirrors the repository's counting rule to decide
// whether the failed attempt just recorded crossed the lock threshold.
func (s *AccountService) attemptLocksAccount(user *domain.User, now time.Time) bool {
	attempts := user.LoginAttempts + 1
	if user.LockUntil != nil && !user.LockUntil.After(now) {
		attempts = 1 // stale lock purged, counter restarted
	}
	return attempts >= s.cfg.MaxLoginAttempts
}

func (s *AccountService) publish(ctx context.Context, event ports.AccountEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", event.Type).Msg("failed to publish account event")
	}
}

func summarize(u *domain.User, includePreferences bool) *ports.UserSummary {
	summary := &ports.UserSummary{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
	if includePreferences {
		prefs := u.Preferences
		summary.Preferences = &prefs
	}
	return summary
}
