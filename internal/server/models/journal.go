package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/sistahology/backend/internal/common"
)

// Journal is a named container of entries owned by exactly one user.
// The owner is immutable after creation.
type Journal struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j *Journal) Validate() error {
	if strings.TrimSpace(j.Name) == "" {
		return fmt.Errorf("%w: journal name must not be empty", common.ErrorValidation)
	}
	return nil
}
