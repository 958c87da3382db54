package api

import (
	"github.com/atelier-studio/provenance/internal/certificates"
	"github.com/atelier-studio/provenance/internal/config"
	"github.com/atelier-studio/provenance/internal/intake"
	"github.com/atelier-studio/provenance/internal/sessions"
	"github.com/atelier-studio/provenance/internal/uploads"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions     sessions.System
	Certificates certificates.System
	Orchestrator *uploads.Orchestrator
	Controller   *certificates.Controller
	Validator    *intake.Validator
}

// NewDomain creates all domain systems from the API runtime. The upload
// orchestrator writes through the session system's ledger adapter so every
// transferred blob lands in the session photo log.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	sessionSys := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	certSys := certificates.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	transfer, err := uploads.NewTransferClient(runtime.Storage, runtime.Logger)
	if err != nil {
		return nil, err
	}

	orchestrator := uploads.NewOrchestrator(
		transfer,
		sessions.NewLedger(sessionSys),
		runtime.Logger,
	)

	controller := certificates.NewController(sessionSys, certSys, runtime.Logger)

	return &Domain{
		Sessions:     sessionSys,
		Certificates: certSys,
		Orchestrator: orchestrator,
		Controller:   controller,
		Validator:    intake.New(cfg.API.MaxPhotoSizeBytes()),
	}, nil
}
