package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

// Claim value distinguishing the two token kinds.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// SessionClaims is the claim set carried by both token kinds. Access tokens
// additionally carry the role so the API layer can authorize without a
// database round trip.
type SessionClaims struct {
	Role     string `json:"role,omitempty"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// SessionIssuerConfig holds secrets and TTLs. The two secrets must differ so
// a refresh token can never be replayed as an access token or vice versa.
type SessionIssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SessionIssuer mints and validates HS256-signed access and refresh tokens.
type SessionIssuer struct {
	cfg   SessionIssuerConfig
	clock ports.Clock
}

func NewSessionIssuer(cfg SessionIssuerConfig, clock ports.Clock) *SessionIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &SessionIssuer{cfg: cfg, clock: clock}
}

// IssueAccessToken mints a short-lived token identifying the account.
func (s *SessionIssuer) IssueAccessToken(userID, role string) (string, error) {
	return s.sign(userID, role, TokenUseAccess, s.cfg.AccessTTL, []byte(s.cfg.AccessSecret))
}

// IssueRefreshToken mints a long-lived token used only to obtain new pairs.
func (s *SessionIssuer) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, "", TokenUseRefresh, s.cfg.RefreshTTL, []byte(s.cfg.RefreshSecret))
}

// VerifyRefreshToken validates a refresh token and returns the account id it
// was issued to. Access tokens, expired tokens, and tokens signed with the
// wrong secret all fail with ErrInvalidToken.
func (s *SessionIssuer) VerifyRefreshToken(raw string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.RefreshSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.TokenUse != TokenUseRefresh || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *SessionIssuer) sign(userID, role, use string, ttl time.Duration, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session issuer: empty signing secret")
	}

	now := s.clock.Now()
	claims := SessionClaims{
		Role:     role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
