package uploads

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/pkg/lifecycle"
	"github.com/atelier-studio/provenance/pkg/storage"
)

type fakeStore struct {
	uploads   map[string]string
	deleted   []string
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string]string)}
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

func (f *fakeStore) URL(key string) string {
	return "https://blobs.test/session-photos/" + key
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTransferClientRequiresStorage(t *testing.T) {
	_, err := NewTransferClient(nil, discardLogger())
	if !errors.Is(err, storage.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTransferStoresAndAddresses(t *testing.T) {
	store := newFakeStore()
	client, err := NewTransferClient(store, discardLogger())
	if err != nil {
		t.Fatalf("NewTransferClient failed: %v", err)
	}

	sessionID := uuid.New()
	file := File{Name: "glaze.jpg", ContentType: "image/jpeg", Data: []byte("bytes")}

	ref, err := client.Transfer(context.Background(), sessionID, file)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if !strings.HasPrefix(ref.Key, "sessions/"+sessionID.String()+"/") {
		t.Errorf("key = %q, want session-scoped prefix", ref.Key)
	}
	if ref.URL != store.URL(ref.Key) {
		t.Errorf("url = %q, want storage-derived address", ref.URL)
	}
	if contentType, ok := store.uploads[ref.Key]; !ok || contentType != "image/jpeg" {
		t.Errorf("upload not recorded with content type: %v", store.uploads)
	}
}

func TestTransferWrapsUploadFailure(t *testing.T) {
	sentinel := errors.New("container unavailable")
	store := newFakeStore()
	store.uploadErr = sentinel

	client, err := NewTransferClient(store, discardLogger())
	if err != nil {
		t.Fatalf("NewTransferClient failed: %v", err)
	}

	_, err = client.Transfer(context.Background(), uuid.New(), File{Name: "a.jpg"})
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped upload error", err)
	}
}

func TestDiscardDeletesBlob(t *testing.T) {
	store := newFakeStore()
	client, err := NewTransferClient(store, discardLogger())
	if err != nil {
		t.Fatalf("NewTransferClient failed: %v", err)
	}

	if err := client.Discard(context.Background(), "sessions/x/1-a.jpg"); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "sessions/x/1-a.jpg" {
		t.Errorf("deleted = %v", store.deleted)
	}
}

func TestPhotoKeyAvoidsCollisions(t *testing.T) {
	sessionID := uuid.New()
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793, time.UTC)

	first := photoKey(sessionID, ts, "step.jpg")
	second := photoKey(sessionID, ts.Add(time.Nanosecond), "step.jpg")

	if first == second {
		t.Errorf("keys collide for repeat filename: %q", first)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name unchanged", in: "photo.jpg", want: "photo.jpg"},
		{name: "path components stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "spaces escaped", in: "my photo.jpg", want: "my%20photo.jpg"},
		{name: "empty falls back", in: "", want: "photo"},
		{name: "dot falls back", in: ".", want: "photo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
