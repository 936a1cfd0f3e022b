package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user record is not found.
var ErrNotFound = errors.New("user not found")

// Repository provides access to the users table.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByCognitoSub(ctx context.Context, sub string) (*User, error)
	// UpsertByEmail creates the user on first login or refreshes the existing
	// row's subject and name, keyed by email. The row is written back into u.
	UpsertByEmail(ctx context.Context, u *User) error
}
