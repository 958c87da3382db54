package sessions

import (
	"bytes"
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/atelier-studio/provenance/internal/intake"
	"github.com/atelier-studio/provenance/internal/uploads"
	"github.com/atelier-studio/provenance/pkg/handlers"
	"github.com/atelier-studio/provenance/pkg/pagination"
	"github.com/atelier-studio/provenance/pkg/routes"
)

// Handler provides HTTP endpoints for session and photo-upload operations.
type Handler struct {
	sys           System
	orchestrator  *uploads.Orchestrator
	validator     *intake.Validator
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StatusRequest carries a requested lifecycle status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// UploadReport is the aggregated response for one batch upload request.
type UploadReport struct {
	Outcome  uploads.Outcome      `json:"outcome,omitempty"`
	Summary  string               `json:"summary"`
	Uploaded int                  `json:"uploaded"`
	Total    int                  `json:"total"`
	Files    []uploads.FileResult `json:"files"`
	Rejected []intake.Rejection   `json:"rejected"`
}

// NewHandler creates a Handler wiring the ledger system, upload orchestrator,
// and intake validator together.
func NewHandler(
	sys System,
	orchestrator *uploads.Orchestrator,
	validator *intake.Validator,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		orchestrator:  orchestrator,
		validator:     validator,
		logger:        logger.With("handler", "sessions"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}/status", Handler: h.SetStatus},
			{Method: "POST", Pattern: "/{id}/photos", Handler: h.UploadPhotos},
			{Method: "POST", Pattern: "/{id}/photos/cancel", Handler: h.CancelUpload},
			{Method: "DELETE", Pattern: "/{id}/photos", Handler: h.DeletePhoto},
		},
	}
}

// List returns a paginated list of sessions with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single session with its photo log by UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	session, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// Create starts a new documentation session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	session, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, session)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching sessions.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SetStatus transitions a session's lifecycle status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := h.sys.SetStatus(r.Context(), id, req.Status); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadPhotos processes a multipart batch upload. Files are screened by the
// intake validator against the session's current photo log, then drained
// sequentially through the upload orchestrator. The response aggregates
// per-file results, intake rejections, and the batch summary.
func (h *Handler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	session, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if session.Status == StatusCompleted {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrCompleted), ErrCompleted)
		return
	}

	files, candidates, err := h.readBatch(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	screened := h.validator.Validate(candidates, session.Filenames())

	report := UploadReport{
		Summary:  screened.Summary(),
		Files:    []uploads.FileResult{},
		Rejected: screened.Rejected,
	}

	accepted := filterAccepted(files, screened)
	if len(accepted) == 0 {
		handlers.RespondJSON(w, http.StatusBadRequest, report)
		return
	}

	batch := uploads.Batch{
		Files:     accepted,
		StepLabel: r.FormValue("description"),
	}

	result, err := h.orchestrator.Run(r.Context(), View(session), batch, h.logProgress(id))
	if err != nil {
		handlers.RespondError(w, h.logger, uploads.MapHTTPStatus(err), err)
		return
	}

	report.Outcome = result.Outcome
	report.Summary = result.Summary
	report.Uploaded = result.Uploaded
	report.Total = result.Total
	report.Files = result.Files

	handlers.RespondJSON(w, http.StatusOK, report)
}

// CancelUpload requests cooperative cancellation of the session's in-flight batch.
func (h *Handler) CancelUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if !h.orchestrator.Cancel(id) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, uploads.ErrNoActiveUpload)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, map[string]bool{"cancelling": true})
}

// DeletePhoto removes the photo identified by the url query parameter from
// the session's ledger. The stored blob is left in place.
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := h.sys.RemovePhoto(r.Context(), id, url); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readBatch(r *http.Request) ([]uploads.File, []intake.Candidate, error) {
	var (
		files      []uploads.File
		candidates []intake.Candidate
	)

	for _, header := range r.MultipartForm.File["photos"] {
		file, err := header.Open()
		if err != nil {
			return nil, nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, nil, err
		}

		contentType := detectContentType(header.Header.Get("Content-Type"), data)
		width, height := probeDimensions(data)

		files = append(files, uploads.File{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        data,
			Width:       width,
			Height:      height,
		})
		candidates = append(candidates, intake.Candidate{
			Filename:    header.Filename,
			SizeBytes:   int64(len(data)),
			ContentType: contentType,
		})
	}

	return files, candidates, nil
}

func (h *Handler) logProgress(id uuid.UUID) uploads.ProgressFunc {
	return func(e uploads.Event) {
		h.logger.Debug(
			"upload progress",
			"session", id,
			"type", e.Type,
			"filename", e.Filename,
			"uploaded", e.Uploaded,
			"total", e.Total,
			"progress", e.Progress,
		)
	}
}

func filterAccepted(files []uploads.File, screened intake.Result) []uploads.File {
	accepted := make(map[string]struct{}, len(screened.Accepted))
	for _, c := range screened.Accepted {
		accepted[c.Filename] = struct{}{}
	}

	out := make([]uploads.File, 0, len(screened.Accepted))
	for _, f := range files {
		if _, ok := accepted[f.Name]; ok {
			out = append(out, f)
		}
	}
	return out
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func probeDimensions(data []byte) (*int, *int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	return &cfg.Width, &cfg.Height
}
