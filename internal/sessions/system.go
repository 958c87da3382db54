package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/pkg/pagination"
)

// System defines the public contract of the session ledger. Every call
// reflects the ledger's current authoritative state; there is no caching
// and no client-side transaction spanning multiple calls.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	// Find returns the session with its photo log, or ErrNotFound.
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Create(ctx context.Context, cmd CreateCommand) (*Session, error)

	// AppendPhoto records one photo against the session's log.
	AppendPhoto(ctx context.Context, sessionID uuid.UUID, photo Photo) error
	// RemovePhoto removes the photo with the given URL from the session's log.
	// The underlying storage object is not touched.
	RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error
	// SetStatus transitions the session's lifecycle status. Completed is
	// one-way: transitions out of it return ErrCompleted.
	SetStatus(ctx context.Context, sessionID uuid.UUID, status string) error
}
