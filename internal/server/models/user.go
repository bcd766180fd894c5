// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash and ImageKey never leave the
// server: they are excluded from JSON.
type User struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"`
	ImageKey     string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
