package auth

import (
	"time"
)

// DefaultProfileImage is the placeholder shown until a user uploads one.
const DefaultProfileImage = "https://github.com/jerrynim/next-airbnb/blob/master/public/static/image/default_user_profile_image.jpg?raw=true"

// User is the account record. Ids are positive integers assigned in
// registration order and never reused; emails are unique under
// case-insensitive comparison.
//
// PasswordHash is deliberately excluded from JSON so no caller-facing
// serialization can leak it. Persistence layers that need the hash on disk
// use their own encodings (see store_file.go).
type User struct {
	ID           int64     `json:"id,omitempty"`
	Email        string    `json:"email,omitempty"`
	FirstName    string    `json:"firstname,omitempty"`
	LastName     string    `json:"lastname,omitempty"`
	PasswordHash string    `json:"-"`
	Birthday     time.Time `json:"birthday,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// EnsureDefaults fills attributes a record must carry before persistence.
func (u *User) EnsureDefaults() *User {
	if u.ProfileImage == "" {
		u.ProfileImage = DefaultProfileImage
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return u
}

// Clone returns an independent copy so store snapshots never alias
// internal state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
