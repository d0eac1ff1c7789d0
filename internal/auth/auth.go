// Package auth stands in for the hosted auth provider. Accounts live only
// in memory; the session is a signed token checked on every read.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("an account with that email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

const minPasswordLen = 6

// User is the signed-in account.
type User struct {
	Email     string
	CreatedAt time.Time
}

// Provider is what the UI needs from an auth backend.
type Provider interface {
	CurrentUser() *User
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
}

type account struct {
	hash      []byte
	createdAt time.Time
}

// Memory is an in-process Provider.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]account
	secret   []byte
	token    string
	ttl      time.Duration
	now      func() time.Time
}

func NewMemory(ttl time.Duration) (*Memory, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to create session secret: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{
		accounts: make(map[string]account),
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	return strings.ToLower(addr.Address), nil
}

// SignUp registers an account. Like the hosted provider it does not sign
// the user in.
func (m *Memory) SignUp(ctx context.Context, email, password string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[addr]; ok {
		return nil, ErrUserExists
	}
	acct := account{hash: hash, createdAt: m.now()}
	m.accounts[addr] = acct
	return &User{Email: addr, CreatedAt: acct.createdAt}, nil
}

func (m *Memory) SignIn(ctx context.Context, email, password string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	m.mu.Lock()
	acct, ok := m.accounts[addr]
	m.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare passwords: %w", err)
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   addr,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	m.mu.Lock()
	m.token = signed
	m.mu.Unlock()
	return &User{Email: addr, CreatedAt: acct.createdAt}, nil
}

func (m *Memory) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return ctx.Err()
}

// CurrentUser returns the signed-in user, or nil when there is no valid
// session.
func (m *Memory) CurrentUser() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(m.token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		m.token = ""
		return nil
	}
	acct, ok := m.accounts[claims.Subject]
	if !ok {
		return nil
	}
	return &User{Email: claims.Subject, CreatedAt: acct.createdAt}
}
