package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/threadnest-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrIncorrectEmail    = errors.New("incorrect email")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// UserLookup resolves users by identity or email
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Credentials owns password hashing and verification
type Credentials struct {
	users UserLookup
	cost  int
}

// NewCredentials creates a credential service. A cost outside bcrypt's
// accepted range falls back to bcrypt.DefaultCost.
func NewCredentials(users UserLookup, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{users: users, cost: cost}
}

// HashPassword returns a salted one-way hash of password
func (c *Credentials) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash in constant time
func (c *Credentials) ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate resolves the user registered under email and checks password.
// email must already be normalized.
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil {
		return nil, ErrIncorrectEmail
	}
	if !c.ComparePassword(user.PasswordHash, password) {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// LookupEmail returns the user registered under email, or nil
func (c *Credentials) LookupEmail(ctx context.Context, email string) (*models.User, error) {
	return c.users.GetByEmail(ctx, email)
}

// Resolve returns the user with the given id, or nil when it no longer exists
func (c *Credentials) Resolve(ctx context.Context, id string) (*models.User, error) {
	return c.users.GetByID(ctx, id)
}
