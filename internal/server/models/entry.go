package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/sistahology/backend/internal/common"
)

// Mood is the optional mood tag on an entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodSad      Mood = "sad"
	MoodAnxious  Mood = "anxious"
	MoodExcited  Mood = "excited"
	MoodGrateful Mood = "grateful"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodAnxious, MoodExcited, MoodGrateful:
		return true
	}
	return false
}

// Entry is a dated piece of content belonging to exactly one journal.
// UserID duplicates the journal owner's id; it is always set server-side
// from the parent journal and every query scopes on it, so the two
// references cannot diverge.
//
// DeletedAt implements the trash lifecycle: nil = active, set = trashed.
type Entry struct {
	ID        string
	JournalID string
	UserID    string
	Title     string
	Content   string
	EntryDate time.Time
	Archived  bool
	Mood      Mood
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Entry) Trashed() bool {
	return e.DeletedAt != nil
}

func (e *Entry) Validate(now time.Time) error {
	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: entry content must not be empty", common.ErrorValidation)
	}
	// Entry dates are calendar dates; compare against the end of today so a
	// same-day entry written in any timezone passes.
	today := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	if e.EntryDate.After(today) {
		return fmt.Errorf("%w: entry date must not be in the future", common.ErrorValidation)
	}
	if e.Mood != "" && !e.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", common.ErrorValidation, e.Mood)
	}
	return nil
}
