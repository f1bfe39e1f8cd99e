// Package session issues and resolves opaque session tokens. Only the
// SHA-256 digest of a token is ever persisted.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/edugamify/classroom-api/internal/domain"
)

const DefaultTTL = 7 * 24 * time.Hour

var ErrNotFound = errors.New("session not found or expired")

type Session struct {
	PersonID  uint        `json:"person_id"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Store is the contract shared by every backend. Resolve renews the
// session for another TTL.
type Store interface {
	Create(ctx context.Context, personID uint, role domain.Role) (string, Session, error)
	Resolve(ctx context.Context, token string) (Session, error)
	Revoke(ctx context.Context, token string) error
}

func NewToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	return hex.EncodeToString(raw), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}

	return ttl
}
