package api

import (
	"net/http"

	"github.com/atelier-studio/provenance/internal/certificates"
	"github.com/atelier-studio/provenance/internal/config"
	"github.com/atelier-studio/provenance/internal/sessions"
	"github.com/atelier-studio/provenance/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	sessionHandler := sessions.NewHandler(
		domain.Sessions,
		domain.Orchestrator,
		domain.Validator,
		runtime.Logger,
		runtime.Pagination,
		cfg.API.MaxUploadSizeBytes(),
	)

	certificateHandler := certificates.NewHandler(
		domain.Certificates,
		domain.Controller,
		runtime.Logger,
		runtime.Pagination,
	)

	storageHandler := newStorageHandler(runtime.Storage, runtime.Logger)

	routes.Register(
		mux,
		sessionHandler.Routes(),
		certificateHandler.Routes(),
		storageHandler.routes(),
	)
}
