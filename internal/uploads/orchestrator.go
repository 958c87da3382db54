package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is the append-only session-of-record capability the orchestrator
// consumes. Each call is an independent remote operation; the ledger is
// authoritative and is never assumed to be exclusively locked.
type Ledger interface {
	AppendPhoto(ctx context.Context, sessionID uuid.UUID, entry PhotoEntry) error
	RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error
}

// Orchestrator owns the per-batch upload state machine. Files are processed
// strictly sequentially in selection order: progress stays trivially
// orderable, peak bandwidth is bounded to one in-flight transfer, and
// cancellation only needs checking at file boundaries.
type Orchestrator struct {
	transfer TransferClient
	ledger   Ledger
	logger   *slog.Logger

	mu     sync.Mutex
	active map[uuid.UUID]*Token
}

// NewOrchestrator creates an Orchestrator over the given transfer client and ledger.
func NewOrchestrator(transfer TransferClient, ledger Ledger, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		transfer: transfer,
		ledger:   ledger,
		logger:   logger.With("system", "uploads"),
		active:   make(map[uuid.UUID]*Token),
	}
}

// Run drains the batch through storage and ledger one file at a time,
// appending acknowledged entries to the session view and emitting one event
// per file transition plus a terminal summary. At most one batch may run per
// session: a re-entrant call returns ErrBusy rather than queuing. A transfer
// or ledger failure on one file never blocks its siblings; a ledger refusal
// additionally triggers a compensating blob delete so storage does not
// accumulate orphans.
func (o *Orchestrator) Run(ctx context.Context, view *SessionView, batch Batch, progress ProgressFunc) (*Result, error) {
	if len(batch.Files) == 0 {
		return nil, ErrNoFiles
	}

	token, err := o.acquire(view.SessionID)
	if err != nil {
		return nil, err
	}
	defer o.release(view.SessionID)

	emit := func(e Event) {
		if progress != nil {
			progress(e)
		}
	}

	description := strings.TrimSpace(batch.StepLabel)
	if description == "" {
		description = DefaultDescription
	}

	result := &Result{
		Total: len(batch.Files),
		Files: make([]FileResult, 0, len(batch.Files)),
	}
	baseStep := len(view.Photos)
	cancelled := false

	for _, file := range batch.Files {
		if token.Cancelled() {
			cancelled = true
			break
		}

		emit(Event{
			Type:     EventFileStarted,
			Filename: file.Name,
			Uploaded: result.Uploaded,
			Total:    result.Total,
			Progress: percentage(result.Uploaded, result.Total),
		})

		entry, err := o.processFile(ctx, view.SessionID, file, description, baseStep+result.Uploaded+1)
		if err != nil {
			o.logger.Warn(
				"photo upload failed",
				"session", view.SessionID,
				"filename", file.Name,
				"error", err,
			)
			result.Files = append(result.Files, FileResult{
				Filename: file.Name,
				Status:   StatusFailed,
				Error:    err.Error(),
			})
			emit(Event{
				Type:     EventFileFailed,
				Filename: file.Name,
				Uploaded: result.Uploaded,
				Total:    result.Total,
				Progress: percentage(result.Uploaded, result.Total),
				Err:      err.Error(),
			})
			continue
		}

		view.Append(*entry)
		result.Uploaded++
		result.Files = append(result.Files, FileResult{
			Filename: file.Name,
			Status:   StatusCompleted,
			Entry:    entry,
		})
		emit(Event{
			Type:     EventFileCompleted,
			Filename: file.Name,
			Step:     entry.Step,
			Uploaded: result.Uploaded,
			Total:    result.Total,
			Progress: percentage(result.Uploaded, result.Total),
		})
	}

	o.finish(result, cancelled)
	emit(Event{
		Type:     EventBatchFinished,
		Uploaded: result.Uploaded,
		Total:    result.Total,
		Progress: percentage(result.Uploaded, result.Total),
		Outcome:  result.Outcome,
		Summary:  result.Summary,
	})

	o.logger.Info(
		"batch finished",
		"session", view.SessionID,
		"outcome", result.Outcome,
		"uploaded", result.Uploaded,
		"total", result.Total,
	)

	return result, nil
}

// Cancel requests cooperative cancellation of the session's in-flight batch.
// Returns false when no batch is running. The in-flight file settles before
// cancellation takes effect.
func (o *Orchestrator) Cancel(sessionID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	token, ok := o.active[sessionID]
	if !ok {
		return false
	}

	token.RequestCancel()
	return true
}

// DeletePhoto removes the photo with the given URL from the ledger and,
// on acknowledgment, from the local session view. The underlying storage
// object is deliberately left in place.
func (o *Orchestrator) DeletePhoto(ctx context.Context, view *SessionView, url string) error {
	if err := o.ledger.RemovePhoto(ctx, view.SessionID, url); err != nil {
		return fmt.Errorf("remove photo from ledger: %w", err)
	}

	if !view.RemoveByURL(url) {
		return ErrPhotoNotFound
	}

	return nil
}

func (o *Orchestrator) processFile(
	ctx context.Context,
	sessionID uuid.UUID,
	file File,
	description string,
	step int,
) (*PhotoEntry, error) {
	ref, err := o.transfer.Transfer(ctx, sessionID, file)
	if err != nil {
		return nil, err
	}

	entry := PhotoEntry{
		ID:          uuid.New(),
		Filename:    file.Name,
		Description: description,
		SizeBytes:   int64(len(file.Data)),
		URL:         ref.URL,
		StorageKey:  ref.Key,
		Step:        step,
		Width:       file.Width,
		Height:      file.Height,
		UploadedAt:  time.Now().UTC(),
	}

	if err := o.ledger.AppendPhoto(ctx, sessionID, entry); err != nil {
		if delErr := o.transfer.Discard(ctx, ref.Key); delErr != nil {
			o.logger.Warn("compensating blob delete failed", "key", ref.Key, "error", delErr)
		}
		return nil, fmt.Errorf("ledger append %s: %w", file.Name, err)
	}

	return &entry, nil
}

func (o *Orchestrator) acquire(sessionID uuid.UUID) (*Token, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.active[sessionID]; ok {
		return nil, ErrBusy
	}

	token := NewToken()
	o.active[sessionID] = token
	return token, nil
}

func (o *Orchestrator) release(sessionID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, sessionID)
}

func (o *Orchestrator) finish(result *Result, cancelled bool) {
	failed := make([]string, 0)
	for _, f := range result.Files {
		if f.Status == StatusFailed {
			failed = append(failed, f.Filename)
		}
	}

	switch {
	case cancelled:
		result.Outcome = OutcomeCancelled
		result.Summary = fmt.Sprintf(
			"upload cancelled: %d of %d photos uploaded",
			result.Uploaded, result.Total,
		)
	case len(failed) > 0:
		result.Outcome = OutcomePartiallyFailed
		result.Summary = fmt.Sprintf(
			"%d of %d photos uploaded; failed: %s",
			result.Uploaded, result.Total, strings.Join(failed, ", "),
		)
	default:
		result.Outcome = OutcomeCompleted
		result.Summary = fmt.Sprintf("%d photos uploaded", result.Uploaded)
	}
}

func percentage(uploaded, total int) int {
	if total == 0 {
		return 0
	}
	return uploaded * 100 / total
}
