package catalog

import (
	"context"
	"log/slog"
	"sync"

	"turnero/internal/catalog/models"
	dErrors "turnero/pkg/domain-errors"
)

// Holder owns the process catalog through its pending → ready | failed
// lifecycle. The fetch runs once; there is no retry.
type Holder struct {
	mu      sync.RWMutex
	state   models.State
	catalog *Catalog
	err     error
	logger  *slog.Logger
}

type HolderOption func(*Holder)

func WithLogger(logger *slog.Logger) HolderOption {
	return func(h *Holder) {
		h.logger = logger
	}
}

// NewHolder returns a Holder in the pending state.
func NewHolder(opts ...HolderOption) *Holder {
	h := &Holder{state: models.StatePending}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Load runs fetch and moves the holder to ready or failed. Calls after the
// first one are rejected.
func (h *Holder) Load(ctx context.Context, fetch Fetcher) error {
	h.mu.Lock()
	if h.state != models.StatePending {
		h.mu.Unlock()
		return dErrors.New(dErrors.CodeValidation, "catalog already loaded")
	}
	h.mu.Unlock()

	records, err := fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = models.StateFailed
		h.err = dErrors.Wrap(err, dErrors.CodeCatalogLoadFailure, "Error al cargar especialidades")
		h.logger.ErrorContext(ctx, "catalog load failed", "error", err)
		return h.err
	}
	h.catalog = New(records)
	h.state = models.StateReady
	h.logger.InfoContext(ctx, "catalog loaded",
		"specialties", h.catalog.Len(),
		"doctors", len(h.catalog.Doctors()),
	)
	return nil
}

// Ready installs an already-built catalog. Intended for tests and for
// embedding callers that load the catalog themselves.
func (h *Holder) Ready(c *Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.catalog = c
	h.state = models.StateReady
	h.err = nil
}

// Current returns the catalog (nil unless ready), the state and the load
// error, if any.
func (h *Holder) Current() (*Catalog, models.State, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog, h.state, h.err
}

// State reports the lifecycle state.
func (h *Holder) State() models.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}
