package uploads

// EventType identifies a progress event emitted during a batch run.
type EventType string

const (
	// EventFileStarted fires before a file's transfer begins.
	EventFileStarted EventType = "file_started"
	// EventFileCompleted fires after a file is stored and ledger-acknowledged.
	EventFileCompleted EventType = "file_completed"
	// EventFileFailed fires when a file's transfer or ledger append fails.
	EventFileFailed EventType = "file_failed"
	// EventBatchFinished fires exactly once per run with the terminal outcome.
	EventBatchFinished EventType = "batch_finished"
)

// Event is one progress transition in a batch run. Uploaded, Total, and
// Progress reflect batch counters at the time of the event; Step is set on
// file completion; Err on file failure; Outcome and Summary on batch finish.
type Event struct {
	Type     EventType `json:"type"`
	Filename string    `json:"filename,omitempty"`
	Step     int       `json:"step,omitempty"`
	Uploaded int       `json:"uploaded"`
	Total    int       `json:"total"`
	Progress int       `json:"progress"`
	Err      string    `json:"error,omitempty"`
	Outcome  Outcome   `json:"outcome,omitempty"`
	Summary  string    `json:"summary,omitempty"`
}

// ProgressFunc receives progress events during a batch run. A nil
// ProgressFunc is valid and disables progress reporting.
type ProgressFunc func(Event)
