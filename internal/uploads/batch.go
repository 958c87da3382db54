// Package uploads implements the session photo-upload pipeline: the storage
// transfer client, the cooperative cancellation token, and the sequential
// batch orchestrator that keeps local state, blob storage, and the session
// ledger consistent under partial failure and cancellation.
package uploads

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDescription is applied to photo entries when a batch carries no step label.
const DefaultDescription = "Process step"

// File is one member of a pending upload batch.
// Width and Height are optional and may be probed by the caller before upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Width       *int
	Height      *int
}

// Status tracks a single file through the upload pipeline.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Outcome is the terminal state of one batch run.
type Outcome string

const (
	OutcomeCompleted       Outcome = "completed"
	OutcomeCancelled       Outcome = "cancelled"
	OutcomePartiallyFailed Outcome = "partially_failed"
)

// Batch is a user-selected group of files submitted together for one
// orchestrator run. StepLabel is a shared description applied to every
// file in the batch.
type Batch struct {
	Files     []File
	StepLabel string
}

// PhotoEntry is the local record of one successfully uploaded and
// ledger-acknowledged photo. Step numbers increase monotonically per
// session and are never renumbered.
type PhotoEntry struct {
	ID          uuid.UUID `json:"id"`
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

// FileResult reports the outcome of a single file within a batch.
// On success Entry is populated; on failure Error describes the problem.
type FileResult struct {
	Filename string      `json:"filename"`
	Status   Status      `json:"status"`
	Error    string      `json:"error,omitempty"`
	Entry    *PhotoEntry `json:"entry,omitempty"`
}

// Result aggregates one batch run: the terminal outcome, counters, per-file
// results, and the single user-facing summary message.
type Result struct {
	Outcome  Outcome      `json:"outcome"`
	Uploaded int          `json:"uploaded"`
	Total    int          `json:"total"`
	Files    []FileResult `json:"files"`
	Summary  string       `json:"summary"`
}

// SessionView is the locally-owned, cached copy of a session's photo log.
// The ledger remains authoritative; the view exists for responsive callers
// and is mutated only by the orchestrator run that holds it.
type SessionView struct {
	SessionID uuid.UUID
	Photos    []PhotoEntry
}

// Filenames returns the filenames currently in the photo log,
// used to reject duplicate submissions at intake.
func (v *SessionView) Filenames() []string {
	names := make([]string, len(v.Photos))
	for i, p := range v.Photos {
		names[i] = p.Filename
	}
	return names
}

// Append adds an acknowledged entry to the local photo log.
func (v *SessionView) Append(entry PhotoEntry) {
	v.Photos = append(v.Photos, entry)
}

// RemoveByURL removes the entry with the given URL from the local photo log.
// Returns false if no entry matched.
func (v *SessionView) RemoveByURL(url string) bool {
	for i, p := range v.Photos {
		if p.URL == url {
			v.Photos = append(v.Photos[:i], v.Photos[i+1:]...)
			return true
		}
	}
	return false
}
