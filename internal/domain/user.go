package domain

import (
	"time"
)

// User represents a domain user object. Google OAuth tokens are stored
// encrypted; the auth service owns the key.
type User struct {
	ID                    string
	GoogleID              string
	Email                 string
	Name                  string
	ProfilePictureURL     string
	EncryptedAccessToken  string
	EncryptedRefreshToken string
	TokenExpiresAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             *time.Time
}

// NewUser creates a new User instance
func NewUser(googleID, email string, now time.Time) *User {
	return &User{
		GoogleID:  googleID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.GoogleID == "" {
		return NewValidationError("google_id", "google_id is required")
	}
	if u.Email == "" {
		return NewValidationError("email", "email is required")
	}
	return nil
}
