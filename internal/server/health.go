package server

import (
	"net/http"

	catalogModels "turnero/internal/catalog/models"
	"turnero/pkg/platform/httputil"
)

// CatalogState reports the catalog lifecycle.
type CatalogState interface {
	State() catalogModels.State
}

// QueueLength reports the number of queued appointments.
type QueueLength interface {
	Len() int
}

// Health answers liveness probes. The process is live regardless of the
// catalog state; a failed catalog only disables registration.
type Health struct {
	Catalog CatalogState
	Queue   QueueLength
	Storage string
}

type healthResponse struct {
	Status      string `json:"status"`
	Catalog     string `json:"catalog"`
	QueueLength int    `json:"queueLength"`
	Storage     string `json:"storage"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Storage: h.Storage}
	if h.Catalog != nil {
		resp.Catalog = string(h.Catalog.State())
	}
	if h.Queue != nil {
		resp.QueueLength = h.Queue.Len()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
