package models

import "time"

// Profile is the application-level user record, 1:1 with a User.
// IsAdmin is never writable through the generic update path; see the
// profiles repository and the token service.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
