package types

import "time"

// User represents an account in the system.
// It contains identity, credential, and audit metadata.
type User struct {
	// ID is the opaque unique identifier of the user (UUID v4).
	ID string `json:"id" db:"id"`

	// Username is the unique login name, human-chosen or generated
	// from the email local part for Google sign-ups.
	Username string `json:"username" db:"username"`

	// Email is the user's email address.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// Nil for accounts created through Google Sign-In only.
	// This field is never exposed in API responses.
	PasswordHash *string `json:"-" db:"password"`

	// GoogleID is the Google subject identifier linked to this
	// account, if any.
	GoogleID *string `json:"-" db:"google_id"`

	// AvatarURL is the profile picture URL, if any.
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the
	// user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile is the subset of User returned by the API.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the API-facing view of the user.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
