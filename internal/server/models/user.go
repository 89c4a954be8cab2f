// Package models holds the persisted entities shared by repositories and
// services.
package models

import (
	"strings"
	"time"
)

// Role names a coarse permission group attached to a user.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// User is a registered account: credentials plus profile. Username and
// normalized email are each unique across all users; the database enforces
// both constraints.
type User struct {
	ID                string
	UserName          string
	Email             string
	NormalizedEmail   string
	PasswordHash      string
	FirstName         string
	LastName          string
	PhoneNumber       string
	ProfilePictureURL string
	Roles             []Role
	CreatedAt         time.Time
}

// FullName joins first and last name, trimming when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
