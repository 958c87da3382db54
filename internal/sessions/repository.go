package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/atelier-studio/provenance/pkg/pagination"
	"github.com/atelier-studio/provenance/pkg/query"
	"github.com/atelier-studio/provenance/pkg/repository"
)

const photoColumns = "id, session_id, filename, description, size_bytes, url, storage_key, step, width, height, uploaded_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session ledger repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Find loads the session row and its photo log concurrently.
func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	var (
		session Session
		photos  []Photo
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		s, err := repository.QueryOne(gctx, r.db, q, args, scanSession)
		if err != nil {
			return repository.MapError(err, ErrNotFound, ErrDuplicatePhoto)
		}
		session = s
		return nil
	})

	g.Go(func() error {
		q := fmt.Sprintf(
			"SELECT %s FROM session_photos WHERE session_id = $1 ORDER BY step",
			photoColumns,
		)
		p, err := repository.QueryMany(gctx, r.db, q, []any{id}, scanPhoto)
		if err != nil {
			return fmt.Errorf("query session photos: %w", err)
		}
		photos = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	session.Photos = photos
	return &session, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	if strings.TrimSpace(cmd.Owner) == "" || strings.TrimSpace(cmd.Title) == "" {
		return nil, ErrInvalidInput
	}

	q := `
		INSERT INTO sessions(id, owner, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner, title, description, status, created_at, updated_at`

	args := []any{uuid.New(), cmd.Owner, cmd.Title, cmd.Description, StatusActive}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Session, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSession)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicatePhoto)
	}

	s.Photos = []Photo{}
	r.logger.Info("session created", "id", s.ID, "owner", s.Owner, "title", s.Title)
	return &s, nil
}

func (r *repo) AppendPhoto(ctx context.Context, sessionID uuid.UUID, photo Photo) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		status, err := lockStatus(ctx, tx, sessionID)
		if err != nil {
			return struct{}{}, err
		}
		if status == StatusCompleted {
			return struct{}{}, ErrCompleted
		}

		insert := fmt.Sprintf(`
			INSERT INTO session_photos(%s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			photoColumns,
		)

		if _, err := tx.ExecContext(
			ctx, insert,
			photo.ID,
			sessionID,
			photo.Filename,
			photo.Description,
			photo.SizeBytes,
			photo.URL,
			photo.StorageKey,
			photo.Step,
			photo.Width,
			photo.Height,
			photo.UploadedAt,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, touch(ctx, tx, sessionID)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicatePhoto)
	}

	r.logger.Info("photo appended", "session", sessionID, "step", photo.Step, "filename", photo.Filename)
	return nil
}

func (r *repo) RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM session_photos WHERE session_id = $1 AND url = $2",
			sessionID, url,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, touch(ctx, tx, sessionID)
	})

	if err != nil {
		return repository.MapError(err, ErrPhotoNotFound, ErrDuplicatePhoto)
	}

	r.logger.Info("photo removed", "session", sessionID, "url", url)
	return nil
}

func (r *repo) SetStatus(ctx context.Context, sessionID uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		current, err := lockStatus(ctx, tx, sessionID)
		if err != nil {
			return struct{}{}, err
		}

		// completed is terminal
		if current == StatusCompleted && status != StatusCompleted {
			return struct{}{}, ErrCompleted
		}

		_, err = tx.ExecContext(
			ctx,
			"UPDATE sessions SET status = $2, updated_at = now() WHERE id = $1",
			sessionID, status,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicatePhoto)
	}

	r.logger.Info("session status changed", "session", sessionID, "status", status)
	return nil
}

func lockStatus(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID) (string, error) {
	var status string
	err := tx.QueryRowContext(
		ctx,
		"SELECT status FROM sessions WHERE id = $1 FOR UPDATE",
		sessionID,
	).Scan(&status)
	if err != nil {
		return "", repository.MapError(err, ErrNotFound, ErrDuplicatePhoto)
	}
	return status, nil
}

func touch(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID) error {
	_, err := tx.ExecContext(
		ctx,
		"UPDATE sessions SET updated_at = now() WHERE id = $1",
		sessionID,
	)
	return err
}
