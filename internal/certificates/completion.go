package certificates

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/internal/sessions"
)

// Controller coordinates session completion with certificate minting.
type Controller struct {
	sessions sessions.System
	certs    System
	logger   *slog.Logger
	now      func() time.Time
}

// NewController creates a completion controller.
func NewController(sessionSys sessions.System, certSys System, logger *slog.Logger) *Controller {
	return &Controller{
		sessions: sessionSys,
		certs:    certSys,
		logger:   logger.With("system", "completion"),
		now:      time.Now,
	}
}

// Complete marks the session completed and mints its provenance certificate.
// A session with an empty photo log cannot be completed. The status flip and
// the mint are not atomic: if the mint fails after the flip, retrying is safe
// because an already-completed session skips the flip and the unique session
// constraint blocks duplicate mints.
func (c *Controller) Complete(ctx context.Context, sessionID uuid.UUID, recipient string) (*Certificate, error) {
	session, err := c.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(session.Photos) == 0 {
		return nil, ErrNoPhotos
	}

	if session.Status != sessions.StatusCompleted {
		if err := c.sessions.SetStatus(ctx, sessionID, sessions.StatusCompleted); err != nil {
			return nil, err
		}
	}

	cert, err := c.certs.Mint(ctx, MintCommand{
		SessionID: sessionID,
		Recipient: recipient,
		Attributes: map[string]any{
			"creation_method": "photo-documented",
			"photo_count":     len(session.Photos),
			"completed_at":    c.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("session completed", "session", sessionID, "token", cert.TokenID, "photos", len(session.Photos))
	return cert, nil
}
