package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sistahology/backend/internal/common"
)

// ContactStatus is the triage state of a contact submission.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactPending, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// ContactSubmission is a public-intake record. Rows are never deleted; they
// form a permanent audit trail.
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *ContactSubmission) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: malformed email", common.ErrorValidation)
	}
	if strings.TrimSpace(c.Message) == "" {
		return fmt.Errorf("%w: message must not be empty", common.ErrorValidation)
	}
	return nil
}
