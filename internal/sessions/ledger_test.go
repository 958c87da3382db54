package sessions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/internal/sessions"
	"github.com/atelier-studio/provenance/internal/uploads"
	"github.com/atelier-studio/provenance/pkg/pagination"
)

type fakeSystem struct {
	appended []sessions.Photo
	removed  []string
	err      error
}

func (f *fakeSystem) List(ctx context.Context, page pagination.PageRequest, filters sessions.Filters) (*pagination.PageResult[sessions.Session], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*sessions.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSystem) Create(ctx context.Context, cmd sessions.CreateCommand) (*sessions.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSystem) AppendPhoto(ctx context.Context, sessionID uuid.UUID, photo sessions.Photo) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, photo)
	return nil
}

func (f *fakeSystem) RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, url)
	return nil
}

func (f *fakeSystem) SetStatus(ctx context.Context, sessionID uuid.UUID, status string) error {
	return errors.New("not implemented")
}

func TestLedgerAppendPhoto(t *testing.T) {
	sys := &fakeSystem{}
	ledger := sessions.NewLedger(sys)

	sessionID := uuid.New()
	width, height := 3024, 4032
	entry := uploads.PhotoEntry{
		ID:          uuid.New(),
		Filename:    "step3.jpg",
		Description: "Glazing",
		SizeBytes:   2048,
		URL:         "https://blobs.test/step3",
		StorageKey:  "sessions/x/step3",
		Step:        3,
		Width:       &width,
		Height:      &height,
		UploadedAt:  time.Now().UTC(),
	}

	if err := ledger.AppendPhoto(context.Background(), sessionID, entry); err != nil {
		t.Fatalf("AppendPhoto failed: %v", err)
	}

	if len(sys.appended) != 1 {
		t.Fatalf("appends = %d, want 1", len(sys.appended))
	}

	photo := sys.appended[0]
	if photo.SessionID != sessionID {
		t.Errorf("session = %s, want %s", photo.SessionID, sessionID)
	}
	if photo.ID != entry.ID || photo.Filename != entry.Filename || photo.Step != entry.Step {
		t.Errorf("photo = %+v, fields lost in translation", photo)
	}
	if photo.Width == nil || *photo.Width != width {
		t.Errorf("width = %v, want %d", photo.Width, width)
	}
}

func TestLedgerRemovePhotoPropagatesError(t *testing.T) {
	sys := &fakeSystem{err: sessions.ErrPhotoNotFound}
	ledger := sessions.NewLedger(sys)

	err := ledger.RemovePhoto(context.Background(), uuid.New(), "https://blobs.test/x")
	if !errors.Is(err, sessions.ErrPhotoNotFound) {
		t.Errorf("err = %v, want ErrPhotoNotFound", err)
	}
}

func TestViewConversion(t *testing.T) {
	session := &sessions.Session{
		ID:     uuid.New(),
		Status: sessions.StatusActive,
		Photos: []sessions.Photo{
			{ID: uuid.New(), Filename: "a.jpg", URL: "https://blobs.test/a", Step: 1},
			{ID: uuid.New(), Filename: "b.jpg", URL: "https://blobs.test/b", Step: 2},
		},
	}

	view := sessions.View(session)

	if view.SessionID != session.ID {
		t.Errorf("session id = %s, want %s", view.SessionID, session.ID)
	}
	if len(view.Photos) != 2 {
		t.Fatalf("photos = %d, want 2", len(view.Photos))
	}
	for i, p := range view.Photos {
		if p.Filename != session.Photos[i].Filename || p.Step != session.Photos[i].Step {
			t.Errorf("photo %d = %+v, want %+v", i, p, session.Photos[i])
		}
	}

	names := view.Filenames()
	if len(names) != 2 || names[0] != "a.jpg" || names[1] != "b.jpg" {
		t.Errorf("filenames = %v", names)
	}
}
