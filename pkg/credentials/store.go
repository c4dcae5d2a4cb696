package credentials

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNoToken is returned when no credential is stored.
var ErrNoToken = errors.New("no token stored")

// Provider supplies the bearer token attached to every authenticated request.
// It replaces the ambient token lookup the browser client scattered through
// each fetch call: network code receives a Provider, never reads storage
// itself.
type Provider interface {
	Token() (string, error)
	Clear()
}

// Claims are the token claims the client cares about. The token is issued and
// verified by the backend; the client only inspects it.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Store holds the session token in memory. An optional OnClear hook lets the
// embedding application drop its persisted copy when the API layer invalidates
// the session (HTTP 401).
type Store struct {
	mu      sync.RWMutex
	token   string
	OnClear func()
}

// NewStore creates a Store seeded with the given token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Token returns the stored token.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Set replaces the stored token, e.g. after a fresh login.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear removes the credential. Called by the API layer on 401 before the
// caller is redirected to the login boundary.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	hook := s.OnClear
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Claims parses the stored token without verifying the signature. Verification
// is the backend's job; the client only needs the subject and expiry.
func (s *Store) Claims() (*Claims, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired reports whether the stored token carries an exp claim in the past.
// A missing or unparsable token counts as expired.
func (s *Store) Expired() bool {
	claims, err := s.Claims()
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
