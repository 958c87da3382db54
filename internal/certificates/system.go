package certificates

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/pkg/pagination"
)

// System defines certificate persistence operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Certificate], error)
	Find(ctx context.Context, tokenID uuid.UUID) (*Certificate, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*Certificate, error)
	Mint(ctx context.Context, cmd MintCommand) (*Certificate, error)
}
