package certificates

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/atelier-studio/provenance/internal/sessions"
	"github.com/atelier-studio/provenance/pkg/handlers"
	"github.com/atelier-studio/provenance/pkg/pagination"
	"github.com/atelier-studio/provenance/pkg/routes"
)

// Handler provides HTTP endpoints for certificates and session completion.
type Handler struct {
	sys        System
	controller *Controller
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a certificate Handler.
func NewHandler(sys System, controller *Controller, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		controller: controller,
		logger:     logger.With("handler", "certificates"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for certificate endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/certificates",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{token}", Handler: h.Find},
			{Method: "GET", Pattern: "/sessions/{id}", Handler: h.FindBySession},
			{Method: "POST", Pattern: "/sessions/{id}", Handler: h.Complete},
		},
	}
}

// List returns a paginated list of minted certificates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single certificate by token ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(r.PathValue("token"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	cert, err := h.sys.Find(r.Context(), token)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cert)
}

// FindBySession returns the certificate minted for a given session.
func (h *Handler) FindBySession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	cert, err := h.sys.FindBySession(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cert)
}

// Complete finalizes a documentation session and mints its certificate.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	cert, err := h.controller.Complete(r.Context(), id, req.Recipient)
	if err != nil {
		handlers.RespondError(w, h.logger, completionStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, cert)
}

// completionStatus resolves a status for errors that may originate from
// either the certificate or the session layer.
func completionStatus(err error) int {
	if status := MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return sessions.MapHTTPStatus(err)
}
