package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/internal/uploads"
)

// Ledger adapts the session System to the upload orchestrator's ledger
// contract, translating photo entries into ledger photo records.
type Ledger struct {
	sys System
}

// NewLedger wraps a session System as an uploads.Ledger.
func NewLedger(sys System) *Ledger {
	return &Ledger{sys: sys}
}

func (l *Ledger) AppendPhoto(ctx context.Context, sessionID uuid.UUID, entry uploads.PhotoEntry) error {
	return l.sys.AppendPhoto(ctx, sessionID, Photo{
		ID:          entry.ID,
		SessionID:   sessionID,
		Filename:    entry.Filename,
		Description: entry.Description,
		SizeBytes:   entry.SizeBytes,
		URL:         entry.URL,
		StorageKey:  entry.StorageKey,
		Step:        entry.Step,
		Width:       entry.Width,
		Height:      entry.Height,
		UploadedAt:  entry.UploadedAt,
	})
}

func (l *Ledger) RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error {
	return l.sys.RemovePhoto(ctx, sessionID, url)
}

// View builds the orchestrator's local session view from the ledger's
// authoritative photo log.
func View(s *Session) *uploads.SessionView {
	view := &uploads.SessionView{
		SessionID: s.ID,
		Photos:    make([]uploads.PhotoEntry, len(s.Photos)),
	}

	for i, p := range s.Photos {
		view.Photos[i] = uploads.PhotoEntry{
			ID:          p.ID,
			Filename:    p.Filename,
			Description: p.Description,
			SizeBytes:   p.SizeBytes,
			URL:         p.URL,
			StorageKey:  p.StorageKey,
			Step:        p.Step,
			Width:       p.Width,
			Height:      p.Height,
			UploadedAt:  p.UploadedAt,
		}
	}

	return view
}
