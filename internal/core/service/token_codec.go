package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

const tokenBytes = 20

// TTLs for the two single-use token purposes.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 10 * time.Minute
)

// IssuedToken is the result of minting a single-use token. Plaintext goes
// into the outbound email exactly once; only Hash is ever persisted.
type IssuedToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// TokenCodec mints opaque random tokens and derives the verifier hashes
// stored in their place. The digest is deterministic (sha256) so an incoming
// plaintext can be matched by hash lookup without the plaintext ever being
// stored.
type TokenCodec struct {
	clock ports.Clock
}

func NewTokenCodec(clock ports.Clock) *TokenCodec {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &TokenCodec{clock: clock}
}

// Issue mints a fresh token valid for ttl from now.
func (c *TokenCodec) Issue(ttl time.Duration) (IssuedToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}

	plaintext := hex.EncodeToString(buf)
	return IssuedToken{
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
		ExpiresAt: c.clock.Now().Add(ttl),
	}, nil
}

// Matches reports whether plaintext corresponds to the stored verifier and
// the stored expiry is strictly in the future.
func (c *TokenCodec) Matches(storedHash string, expiresAt *time.Time, plaintext string) bool {
	if storedHash == "" || expiresAt == nil || !expiresAt.After(c.clock.Now()) {
		return false
	}
	incoming := HashToken(plaintext)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(incoming)) == 1
}

// HashToken derives the stored verifier for a token plaintext.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
