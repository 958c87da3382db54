package certificates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/pkg/pagination"
	"github.com/atelier-studio/provenance/pkg/query"
	"github.com/atelier-studio/provenance/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a certificate repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "certificates"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Certificate], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Recipient")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count certificates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCertificate)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, tokenID uuid.UUID) (*Certificate, error) {
	q, args := query.NewBuilder(projection).BuildSingle("TokenID", tokenID)
	cert, err := repository.QueryOne(ctx, r.db, q, args, scanCertificate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyMinted)
	}
	return &cert, nil
}

func (r *repo) FindBySession(ctx context.Context, sessionID uuid.UUID) (*Certificate, error) {
	q, args := query.NewBuilder(projection).BuildSingle("SessionID", sessionID)
	cert, err := repository.QueryOne(ctx, r.db, q, args, scanCertificate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyMinted)
	}
	return &cert, nil
}

// Mint inserts the certificate row. A unique constraint on session_id
// guarantees at most one certificate per session.
func (r *repo) Mint(ctx context.Context, cmd MintCommand) (*Certificate, error) {
	if strings.TrimSpace(cmd.Recipient) == "" {
		return nil, ErrInvalidInput
	}

	attrs, err := json.Marshal(cmd.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode certificate attributes: %w", err)
	}

	q := `
		INSERT INTO certificates(token_id, session_id, recipient, attributes)
		VALUES ($1, $2, $3, $4)
		RETURNING token_id, session_id, recipient, attributes, minted_at`

	args := []any{uuid.New(), cmd.SessionID, cmd.Recipient, attrs}

	cert, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Certificate, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCertificate)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyMinted)
	}

	r.logger.Info("certificate minted", "token", cert.TokenID, "session", cert.SessionID, "recipient", cert.Recipient)
	return &cert, nil
}
