package models

import "time"

// User is one row of the users table. The password hash never leaves the
// storage layer in API responses.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
