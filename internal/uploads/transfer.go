package uploads

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/pkg/storage"
)

// PhotoRef addresses one stored photo: its durable storage key and the
// retrievable URL derived from the storage capability's addressing scheme.
type PhotoRef struct {
	URL string
	Key string
}

// TransferClient moves a single file's bytes into durable storage.
// It applies no retry policy; retries belong to the orchestrator's caller.
type TransferClient interface {
	// Transfer writes the file to a collision-resistant key and returns its address.
	Transfer(ctx context.Context, sessionID uuid.UUID, file File) (PhotoRef, error)
	// Discard removes a previously transferred blob, used to compensate
	// when the ledger refuses the matching append.
	Discard(ctx context.Context, key string) error
}

type transferClient struct {
	store  storage.System
	logger *slog.Logger
	now    func() time.Time
}

// NewTransferClient creates a TransferClient over the given storage capability.
// Fails fast with storage.ErrNotConfigured when no capability is provided,
// before any network activity can occur.
func NewTransferClient(store storage.System, logger *slog.Logger) (TransferClient, error) {
	if store == nil {
		return nil, storage.ErrNotConfigured
	}

	return &transferClient{
		store:  store,
		logger: logger.With("system", "transfer"),
		now:    time.Now,
	}, nil
}

func (c *transferClient) Transfer(ctx context.Context, sessionID uuid.UUID, file File) (PhotoRef, error) {
	key := photoKey(sessionID, c.now().UTC(), file.Name)

	if err := c.store.Upload(ctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return PhotoRef{}, fmt.Errorf("transfer photo %s: %w", file.Name, err)
	}

	return PhotoRef{
		URL: c.store.URL(key),
		Key: key,
	}, nil
}

func (c *transferClient) Discard(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// photoKey incorporates the session id, a nanosecond timestamp, and the
// original filename so repeat uploads of the same name never collide.
func photoKey(sessionID uuid.UUID, ts time.Time, filename string) string {
	return fmt.Sprintf("sessions/%s/%d-%s", sessionID, ts.UnixNano(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "photo"
	}
	return url.PathEscape(name)
}
