// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assignable to a user. Admins get the full console; regular users
// only authenticate.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Account statuses. Inactive users remain in the directory but are flagged
// as disabled in the console.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// ValidRole reports whether s is one of the assignable roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser
}

// ValidStatus reports whether s is one of the account statuses.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// User is the stored user record.
//
// NOTE:
//   - Email is stored lowercase and carries a unique index.
//   - GoogleID is set for accounts provisioned through Google SSO and
//     carries a unique sparse index.
//   - PasswordHash is a bcrypt hash for email/password accounts. It is
//     never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoogleID       *string            `bson:"google_id,omitempty" json:"googleId,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   *string            `bson:"password_hash,omitempty" json:"-"`
	Role           string             `bson:"role" json:"role"` // Admin | User
	Status         string             `bson:"status" json:"status"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is the redacted view returned from the auth endpoints.
// It never carries the Google subject or the password hash.
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Pic    string `json:"pic,omitempty"`
}

// Public projects the stored record onto its redacted profile.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
		Pic:    u.ProfilePicture,
	}
}

// DirectoryEntry is the view returned by the user-directory listing. It is
// the full record minus the Google subject (and, implicitly, the password
// hash). The projection is explicit so a model change cannot silently leak
// a new field.
type DirectoryEntry struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Directory projects the stored record onto its directory view.
func (u User) Directory() DirectoryEntry {
	return DirectoryEntry{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Status:         u.Status,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
