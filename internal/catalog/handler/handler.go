package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turnero/internal/catalog"
	"turnero/internal/catalog/models"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/httputil"
	"turnero/pkg/requestcontext"
)

// Provider exposes the current catalog and its load state.
type Provider interface {
	Current() (*catalog.Catalog, models.State, error)
}

// Handler serves the read-only catalog endpoints.
type Handler struct {
	catalog Provider
	logger  *slog.Logger
}

// New creates a catalog Handler.
func New(provider Provider, logger *slog.Logger) *Handler {
	return &Handler{catalog: provider, logger: logger}
}

// Register mounts the catalog routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/catalog/specialties", h.handleSpecialties)
	r.Get("/catalog/doctors", h.handleDoctors)
}

type specialtiesResponse struct {
	Specialties []models.Specialty `json:"specialties"`
	Count       int                `json:"count"`
}

type doctorsResponse struct {
	Doctors []string `json:"doctors"`
}

func (h *Handler) handleSpecialties(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ready(w, r)
	if !ok {
		return
	}
	specialties := c.Specialties()
	httputil.WriteJSON(w, http.StatusOK, specialtiesResponse{Specialties: specialties, Count: len(specialties)})
}

func (h *Handler) handleDoctors(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ready(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doctorsResponse{Doctors: c.Doctors()})
}

// ready writes a 503 unless the catalog finished loading.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) (*catalog.Catalog, bool) {
	c, state, err := h.catalog.Current()
	switch state {
	case models.StateReady:
		return c, true
	case models.StateFailed:
		h.logger.WarnContext(r.Context(), "catalog requested after failed load",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		if err == nil {
			err = dErrors.New(dErrors.CodeCatalogLoadFailure, "Error al cargar especialidades")
		}
		httputil.WriteError(w, err)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "Las especialidades todavía se están cargando"))
	}
	return nil, false
}
