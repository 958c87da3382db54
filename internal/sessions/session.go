// Package sessions implements the session ledger: the system of record for
// art-documentation sessions, their ordered photo logs, and status lifecycle.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle statuses. Completed is terminal: no transition out of it
// is accepted.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is a recognized lifecycle status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusActive || s == StatusCompleted
}

// Session represents one documentation effort for one artwork. The photo
// list is the single source of truth for what photos belong to the session,
// ordered by step number.
type Session struct {
	ID          uuid.UUID `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Photos      []Photo   `json:"photos,omitempty"`
}

// Photo is one ledger-acknowledged photo in a session's log.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	Filename    string    `json:"filename"`
	Description string    `json:"description"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	StorageKey  string    `json:"storage_key"`
	Step        int       `json:"step"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data needed to start a new session.
type CreateCommand struct {
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PhotoURLs returns the session's photo URLs in step order.
func (s *Session) PhotoURLs() []string {
	urls := make([]string, len(s.Photos))
	for i, p := range s.Photos {
		urls[i] = p.URL
	}
	return urls
}

// Filenames returns the session's photo filenames in step order.
func (s *Session) Filenames() []string {
	names := make([]string, len(s.Photos))
	for i, p := range s.Photos {
		names[i] = p.Filename
	}
	return names
}
