// Package storage keeps the filing history and user accounts.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rgehrsitz/itrgo/internal/domain"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
)

// RecordStore is the append-only filing history.
type RecordStore interface {
	Append(ctx context.Context, rec domain.StoredRecord) error
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]domain.StoredRecord, error)
}

// User is a stored account. Only the bcrypt hash of the password is kept.
type User struct {
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore holds accounts keyed by username.
type UserStore interface {
	// CreateUser fails with ErrUserExists when the username is taken.
	CreateUser(ctx context.Context, u User) error
	// GetUser fails with ErrNotFound for unknown usernames.
	GetUser(ctx context.Context, username string) (User, error)
}
