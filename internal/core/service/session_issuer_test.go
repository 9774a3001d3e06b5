package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
)

func newTestIssuer(clock *fakeClock) *SessionIssuer {
	return NewSessionIssuer(SessionIssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	}, clock)
}

func TestSessionIssuer_RefreshRoundTrip(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	token, err := issuer.IssueRefreshToken("user_1")
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}

	userID, err := issuer.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("verify refresh failed: %v", err)
	}
	if userID != "user_1" {
		t.Fatalf("subject = %q, want user_1", userID)
	}
}

func TestSessionIssuer_AccessTokenClaims(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	raw, err := issuer.IssueAccessToken("user_1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue access failed: %v", err)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	}, jwt.WithTimeFunc(clock.Now))
	if err != nil || !token.Valid {
		t.Fatalf("access token did not parse: %v", err)
	}
	if claims.Subject != "user_1" || claims.Role != domain.RoleAdmin || claims.TokenUse != TokenUseAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
	if want := clock.Now().Add(time.Hour); !claims.ExpiresAt.Time.Equal(want) {
		t.Fatalf("access expiry = %v, want %v", claims.ExpiresAt.Time, want)
	}
}

func TestSessionIssuer_RejectsAccessTokenAsRefresh(t *testing.T) {
	issuer := newTestIssuer(newFakeClock())

	access, err := issuer.IssueAccessToken("user_1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access failed: %v", err)
	}
	if _, err := issuer.VerifyRefreshToken(access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionIssuer_RejectsWrongSecret(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)
	other := NewSessionIssuer(SessionIssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "a-different-secret",
	}, clock)

	token, err := other.IssueRefreshToken("user_1")
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}
	if _, err := issuer.VerifyRefreshToken(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionIssuer_RejectsExpiredRefresh(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	token, err := issuer.IssueRefreshToken("user_1")
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}

	clock.Advance(7*24*time.Hour + time.Second)
	if _, err := issuer.VerifyRefreshToken(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestSessionIssuer_RejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(newFakeClock())
	if _, err := issuer.VerifyRefreshToken("not-a-jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionIssuer_EmptySecretFails(t *testing.T) {
	issuer := NewSessionIssuer(SessionIssuerConfig{RefreshSecret: "r"}, newFakeClock())
	if _, err := issuer.IssueAccessToken("user_1", domain.RoleUser); err == nil {
		t.Fatalf("expected error for empty access secret")
	}
}
