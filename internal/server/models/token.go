package models

import "time"

// RegistrationToken is a single-use credential for elevating a profile to
// admin. UsedAt nil means unused; consumed tokens are kept as an audit trail.
type RegistrationToken struct {
	ID           string
	Token        string
	Email        string
	ExpiresAt    time.Time
	UsedAt       *time.Time
	UsedByUserID string
	CreatedBy    string
	CreatedAt    time.Time
}

func (t *RegistrationToken) Consumed() bool {
	return t.UsedAt != nil
}

func (t *RegistrationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// RefreshToken is a server-stored rotating refresh token for a user session.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
