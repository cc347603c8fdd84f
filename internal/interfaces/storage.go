package interfaces

import (
	"context"
	"errors"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// Sentinel errors shared by UserStore implementations.
var (
	// ErrUserExists is returned by Register when the email is taken.
	ErrUserExists = errors.New("account already exists")

	// ErrUserNotFound is returned by lookups for unknown users.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore persists accounts in the users table and checks login attempts.
// Implementations hash passwords before storage and never return or log
// plaintext.
type UserStore interface {
	// Register creates an account and returns its assigned id.
	// Returns ErrUserExists when the email is already registered.
	Register(ctx context.Context, email, password string) (int64, error)

	// Verify checks an email/password pair. A wrong password and an unknown
	// email both come back as plain false; the error is reserved for
	// infrastructure failures.
	Verify(ctx context.Context, email, password string) (bool, error)

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Delete removes an account. Admin/profile-removal path only.
	Delete(ctx context.Context, id int64) error

	Close() error
}
