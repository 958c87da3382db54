package sessions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/internal/intake"
	"github.com/atelier-studio/provenance/internal/sessions"
	"github.com/atelier-studio/provenance/internal/uploads"
	"github.com/atelier-studio/provenance/pkg/pagination"
)

type handlerSystem struct {
	fakeSystem
	session *sessions.Session
}

func (h *handlerSystem) Find(ctx context.Context, id uuid.UUID) (*sessions.Session, error) {
	if h.session == nil || h.session.ID != id {
		return nil, sessions.ErrNotFound
	}
	return h.session, nil
}

func (h *handlerSystem) Create(ctx context.Context, cmd sessions.CreateCommand) (*sessions.Session, error) {
	if strings.TrimSpace(cmd.Owner) == "" || strings.TrimSpace(cmd.Title) == "" {
		return nil, sessions.ErrInvalidInput
	}
	return &sessions.Session{
		ID:     uuid.New(),
		Owner:  cmd.Owner,
		Title:  cmd.Title,
		Status: sessions.StatusActive,
		Photos: []sessions.Photo{},
	}, nil
}

type handlerTransfer struct{}

func (handlerTransfer) Transfer(ctx context.Context, sessionID uuid.UUID, file uploads.File) (uploads.PhotoRef, error) {
	key := fmt.Sprintf("sessions/%s/%s", sessionID, file.Name)
	return uploads.PhotoRef{URL: "https://blobs.test/" + key, Key: key}, nil
}

func (handlerTransfer) Discard(ctx context.Context, key string) error { return nil }

type handlerLedger struct {
	appended []uploads.PhotoEntry
}

func (l *handlerLedger) AppendPhoto(ctx context.Context, sessionID uuid.UUID, entry uploads.PhotoEntry) error {
	l.appended = append(l.appended, entry)
	return nil
}

func (l *handlerLedger) RemovePhoto(ctx context.Context, sessionID uuid.UUID, url string) error {
	return nil
}

func newHandler(t *testing.T, sys sessions.System, ledger uploads.Ledger) *sessions.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := uploads.NewOrchestrator(handlerTransfer{}, ledger, logger)
	return sessions.NewHandler(
		sys,
		orch,
		intake.New(1024*1024),
		logger,
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		10*1024*1024,
	)
}

func multipartBody(t *testing.T, description string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	for name, data := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename=%q`, name))
		header.Set("Content-Type", "image/jpeg")

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, handler *sessions.Handler, sessionID uuid.UUID, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/photos", sessionID), body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", sessionID.String())

	rec := httptest.NewRecorder()
	handler.UploadPhotos(rec, req)
	return rec
}

func TestUploadPhotos(t *testing.T) {
	sys := &handlerSystem{session: &sessions.Session{
		ID:     uuid.New(),
		Status: sessions.StatusActive,
	}}
	ledger := &handlerLedger{}
	handler := newHandler(t, sys, ledger)

	body, contentType := multipartBody(t, "Glazing", map[string][]byte{
		"step1.jpg": []byte("jpeg-bytes"),
	})

	rec := uploadRequest(t, handler, sys.session.ID, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report sessions.UploadReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}

	if report.Outcome != uploads.OutcomeCompleted {
		t.Errorf("outcome = %q, want completed", report.Outcome)
	}
	if report.Uploaded != 1 || report.Total != 1 {
		t.Errorf("counters = %d/%d, want 1/1", report.Uploaded, report.Total)
	}
	if len(ledger.appended) != 1 || ledger.appended[0].Description != "Glazing" {
		t.Errorf("ledger appends = %+v", ledger.appended)
	}
}

func TestUploadPhotosRejectsDuplicates(t *testing.T) {
	sys := &handlerSystem{session: &sessions.Session{
		ID:     uuid.New(),
		Status: sessions.StatusActive,
		Photos: []sessions.Photo{{Filename: "step1.jpg", Step: 1}},
	}}
	handler := newHandler(t, sys, &handlerLedger{})

	body, contentType := multipartBody(t, "", map[string][]byte{
		"step1.jpg": []byte("jpeg-bytes"),
	})

	rec := uploadRequest(t, handler, sys.session.ID, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when every file is rejected", rec.Code)
	}

	var report sessions.UploadReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if len(report.Rejected) != 1 || report.Rejected[0].Reason != intake.ReasonDuplicate {
		t.Errorf("rejected = %+v", report.Rejected)
	}
}

func TestUploadPhotosRefusesCompletedSession(t *testing.T) {
	sys := &handlerSystem{session: &sessions.Session{
		ID:     uuid.New(),
		Status: sessions.StatusCompleted,
	}}
	handler := newHandler(t, sys, &handlerLedger{})

	body, contentType := multipartBody(t, "", map[string][]byte{
		"step1.jpg": []byte("jpeg-bytes"),
	})

	rec := uploadRequest(t, handler, sys.session.ID, body, contentType)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for completed session", rec.Code)
	}
}

func TestUploadPhotosUnknownSession(t *testing.T) {
	handler := newHandler(t, &handlerSystem{}, &handlerLedger{})

	body, contentType := multipartBody(t, "", map[string][]byte{
		"step1.jpg": []byte("jpeg-bytes"),
	})

	rec := uploadRequest(t, handler, uuid.New(), body, contentType)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCancelUploadWithoutActiveBatch(t *testing.T) {
	sys := &handlerSystem{session: &sessions.Session{ID: uuid.New(), Status: sessions.StatusActive}}
	handler := newHandler(t, sys, &handlerLedger{})

	req := httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/photos/cancel", sys.session.ID), nil)
	req.SetPathValue("id", sys.session.ID.String())

	rec := httptest.NewRecorder()
	handler.CancelUpload(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 with no batch in flight", rec.Code)
	}
}

func TestCreateSession(t *testing.T) {
	handler := newHandler(t, &handlerSystem{}, &handlerLedger{})

	payload := `{"owner": "mira", "title": "Raku vase"}`
	req := httptest.NewRequest("POST", "/sessions", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var session sessions.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.Owner != "mira" || session.Status != sessions.StatusActive {
		t.Errorf("session = %+v", session)
	}
}

func TestCreateSessionInvalidBody(t *testing.T) {
	handler := newHandler(t, &handlerSystem{}, &handlerLedger{})

	req := httptest.NewRequest("POST", "/sessions", strings.NewReader("not-json"))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
