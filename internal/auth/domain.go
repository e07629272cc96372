package auth

import "time"

// User is an operator account. LoginID is the handle used to sign in.
type User struct {
	ID           int64     `json:"id"`
	LoginID      string    `json:"login_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordResetOTP is a single-use reset code tied to a user.
type PasswordResetOTP struct {
	ID        int64
	UserID    int64
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the code is past its validity window.
func (o PasswordResetOTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
