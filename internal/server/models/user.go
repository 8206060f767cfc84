// Package models contains the persistent entity types of the Sistahology
// backend: identity, profiles, journals, entries, admin-managed content,
// registration tokens and contact submissions.
package models

import "time"

// User is the identity record behind a Profile (credentials only).
// Application-level attributes live on Profile.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
