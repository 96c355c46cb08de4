// Package session tracks the "logged in" flag the dashboard consults before
// mutating reports. Credentials are not verified here.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/techagentng/oceanwatch/services/jwt"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrEmptyUser   = errors.New("user is required")
)

// Session is the identity behind a valid token.
type Session struct {
	User  string `json:"user"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Store interface {
	Login(user, role string) (*Session, error)
	IsLoggedIn(token string) (*Session, error)
	Logout(token string) error
}

// JWTStore issues signed tokens and remembers logged-out ones until they expire.
type JWTStore struct {
	secret string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewJWTStore(secret string, ttl time.Duration) *JWTStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTStore{secret: secret, ttl: ttl, now: time.Now, revoked: map[string]time.Time{}}
}

func (s *JWTStore) Login(user, role string) (*Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrEmptyUser
	}
	token, err := jwt.GenerateToken(user, role, s.secret, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Role: role, Token: token}, nil
}

func (s *JWTStore) IsLoggedIn(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	s.mu.Lock()
	_, revoked := s.revoked[token]
	s.mu.Unlock()
	if revoked {
		return nil, ErrNotLoggedIn
	}
	claims, err := jwt.ValidateAndGetClaims(token, s.secret)
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	user, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if user == "" {
		return nil, ErrNotLoggedIn
	}
	return &Session{User: user, Role: role, Token: token}, nil
}

func (s *JWTStore) Logout(token string) error {
	if _, err := s.IsLoggedIn(token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for t, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, t)
		}
	}
	s.revoked[token] = now.Add(s.ttl)
	return nil
}
