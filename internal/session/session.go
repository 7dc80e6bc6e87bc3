// Package session issues and resolves signed session tokens.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nutrilog/internal/cache"
)

// CookieName is the cookie carrying the session token.
const CookieName = "nutrilog_session"

const issuer = "nutrilog"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session revoked")
)

// Claims identify the principal a token was issued to.
type Claims struct {
	jwt.RegisteredClaims
}

// PrincipalID returns the numeric subject.
func (c *Claims) PrincipalID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Manager signs HS256 tokens and tracks revoked token ids until they expire.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked *cache.LRUCache[struct{}]
	now     func() time.Time
}

// maxRevoked bounds the revocation list; expired ids are swept first.
const maxRevoked = 100_000

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: cache.NewLRUCache[struct{}](maxRevoked, ttl),
		now:     time.Now,
	}
}

// Revocations exposes the revocation list so a cache.Janitor can sweep it.
func (m *Manager) Revocations() cache.Cleaner {
	return m.revoked
}

// RevokedCount reports how many revoked ids are still tracked.
func (m *Manager) RevokedCount() int {
	return m.revoked.Size()
}

// TTL is the lifetime of newly issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a token for principalID.
func (m *Manager) Issue(principalID int64) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(principalID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, exp, nil
}

// Resolve validates token and returns its claims.
func (m *Manager) Resolve(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := claims.PrincipalID(); err != nil {
		return nil, err
	}
	if _, revoked := m.revoked.Get(claims.ID); revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke invalidates a resolved token for the rest of its lifetime.
func (m *Manager) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	ttl := m.ttl
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(m.now())
	}
	if ttl <= 0 {
		return
	}
	m.revoked.SetWithTTL(claims.ID, struct{}{}, ttl)
}
