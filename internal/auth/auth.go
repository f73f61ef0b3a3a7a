// Package auth handles accounts, session tokens and the request identity.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const adminUsername = "admin"

// DefaultAccounts are created by Seed when missing.
var DefaultAccounts = map[string]string{
	"admin": "admin123",
	"user":  "user123",
}

// Authenticator checks credentials against a UserStore.
type Authenticator struct {
	users storage.UserStore
	cost  int
	now   func() time.Time
}

func NewAuthenticator(users storage.UserStore) *Authenticator {
	return &Authenticator{users: users, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost sets the bcrypt cost used for new passwords.
func (a *Authenticator) WithCost(cost int) *Authenticator {
	a.cost = cost
	return a
}

// Register creates an account. It reports false for blank fields, a taken
// username or a storage failure.
func (a *Authenticator) Register(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return false
	}
	err = a.users.CreateUser(ctx, storage.User{Username: username, PasswordHash: hash, CreatedAt: a.now()})
	return err == nil
}

// Login verifies credentials and returns the caller's identity.
func (a *Authenticator) Login(ctx context.Context, username, password string) (domain.Identity, bool) {
	username = strings.TrimSpace(username)
	u, err := a.users.GetUser(ctx, username)
	if err != nil {
		return domain.Identity{}, false
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return domain.Identity{}, false
	}
	return IdentityFor(u.Username), true
}

// Seed creates the default accounts that do not exist yet.
func (a *Authenticator) Seed(ctx context.Context) error {
	for username, password := range DefaultAccounts {
		_, err := a.users.GetUser(ctx, username)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
		if err != nil {
			return err
		}
		err = a.users.CreateUser(ctx, storage.User{Username: username, PasswordHash: hash, CreatedAt: a.now()})
		if err != nil && !errors.Is(err, storage.ErrUserExists) {
			return err
		}
	}
	return nil
}

// IdentityFor derives the role from the username: only "admin" is an admin.
func IdentityFor(username string) domain.Identity {
	role := domain.RoleUser
	if username == adminUsername {
		role = domain.RoleAdmin
	}
	return domain.Identity{Username: username, Role: role}
}

type identityKey struct{}

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller attached by WithIdentity.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
