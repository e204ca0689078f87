package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"turnero/internal/queue/models"
	"turnero/internal/queue/report"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/httputil"
	"turnero/pkg/requestcontext"
)

// Service defines the queue operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, c models.Candidate) (models.Appointment, error)
	Remove(ctx context.Context, id int) (models.Appointment, error)
	FilterByDoctor(ctx context.Context, doctor string) []models.Appointment
	WaitTimes(ctx context.Context, doctor string) (report.WaitTimeReport, error)
	Statistics(ctx context.Context, doctor string) (report.StatisticsReport, error)
}

// Handler wires queue endpoints to the queue service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a queue handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts queue and report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/appointments", h.HandleRegister)
	r.Get("/appointments", h.HandleList)
	r.Delete("/appointments/{id}", h.HandleRemove)
	r.Get("/reports/wait-times", h.HandleWaitTimes)
	r.Get("/reports/statistics", h.HandleStatistics)
}

// HandleRegister handles POST /appointments.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	a, err := h.service.Register(ctx, req.ToCandidate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registeredResponse(a))
}

// HandleList handles GET /appointments?doctor=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	doctor := r.URL.Query().Get("doctor")
	list := h.service.FilterByDoctor(r.Context(), doctor)

	resp := AppointmentListResponse{Appointments: list, Count: len(list)}
	if len(list) == 0 && doctor != "" {
		resp.Info = models.MsgNoAppointmentsForDoctor
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleRemove handles DELETE /appointments/{id}.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.InfoContext(ctx, "invalid appointment id",
			"request_id", requestcontext.RequestID(ctx),
			"id", chi.URLParam(r, "id"),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be an integer"))
		return
	}

	removed, err := h.service.Remove(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, removedResponse(removed))
}

// HandleWaitTimes handles GET /reports/wait-times?doctor=&format=.
func (h *Handler) HandleWaitTimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := h.service.WaitTimes(r.Context(), q.Get("doctor"))
	if h.writeReportError(w, r, err) {
		return
	}
	if wantsText(r) {
		httputil.WriteText(w, http.StatusOK, rep.Text())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
}

// HandleStatistics handles GET /reports/statistics?doctor=&format=.
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := h.service.Statistics(r.Context(), q.Get("doctor"))
	if h.writeReportError(w, r, err) {
		return
	}
	if wantsText(r) {
		httputil.WriteText(w, http.StatusOK, rep.Text())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
}

// writeReportError renders err and reports whether it did. An empty view is
// informational, not a failure.
func (h *Handler) writeReportError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, models.ErrNoAppointments) {
		if wantsText(r) {
			httputil.WriteText(w, http.StatusOK, models.MsgNoAppointments+"\n")
			return true
		}
		httputil.WriteJSON(w, http.StatusOK, InfoResponse{Info: models.MsgNoAppointments})
		return true
	}
	h.logger.ErrorContext(r.Context(), "report failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err,
	)
	httputil.WriteError(w, err)
	return true
}

func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}
