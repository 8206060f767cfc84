package models

import "time"

// Attachment is a file stored in object storage and linked to an entry.
// Ownership is transitive through the entry; UserID mirrors the entry owner
// the same way Entry.UserID mirrors the journal owner.
type Attachment struct {
	ID           string
	EntryID      string
	UserID       string
	FileName     string
	ContentType  string
	StorageKey   string
	UploadStatus string
	CreatedAt    time.Time
}
