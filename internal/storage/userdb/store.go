// Package userdb stores account credentials in PostgreSQL.
package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

const bcryptCost = 10

// emailPattern is a pragmatic shape check, not full RFC validation.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Store implements UserStore over database/sql with the pq driver.
type Store struct {
	db     *sql.DB
	logger *common.Logger
}

// New opens a connection pool against the given postgres DSN, verifies it
// with a ping and ensures the users table exists.
func New(dsn string, logger *common.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	store := &Store{db: db, logger: logger}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Msg("User store initialized")
	return store, nil
}

// NewWithDB wraps an existing connection, for tests that manage their own
// database lifecycle.
func NewWithDB(db *sql.DB, logger *common.Logger) (*Store, error) {
	store := &Store{db: db, logger: logger}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Register hashes the password and inserts a new account. A duplicate email
// surfaces as interfaces.ErrUserExists.
func (s *Store) Register(ctx context.Context, email, password string) (int64, error) {
	if !emailPattern.MatchString(email) {
		return 0, fmt.Errorf("invalid email address %q", email)
	}
	if password == "" {
		return 0, errors.New("password must not be empty")
	}

	// bcrypt ignores input past 72 bytes; truncate explicitly so Verify
	// hashes the same prefix.
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, string(hash)).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, interfaces.ErrUserExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("User registered")
	return id, nil
}

// Verify checks an email/password pair. Unknown email and wrong password
// both return plain false so callers cannot distinguish the two.
func (s *Store) Verify(ctx context.Context, email, password string) (bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE email = $1`, email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes); err != nil {
		return false, nil
	}
	return true, nil
}

// GetByEmail loads an account by email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email))
}

// GetByID loads an account by id.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// Delete removes an account.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm delete: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrUserNotFound
	}

	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements UserStore
var _ interfaces.UserStore = (*Store)(nil)
