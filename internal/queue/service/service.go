package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"turnero/internal/catalog"
	catalogModels "turnero/internal/catalog/models"
	"turnero/internal/queue/metrics"
	"turnero/internal/queue/models"
	"turnero/internal/queue/report"
	"turnero/internal/queue/store"
	dErrors "turnero/pkg/domain-errors"
	pstrings "turnero/pkg/platform/strings"
	"turnero/pkg/requestcontext"
)

const tracerName = "turnero/internal/queue"

// maxAge is the oldest accepted age.
const maxAge = 150

// CatalogProvider exposes the specialty catalog once it has loaded.
type CatalogProvider interface {
	Current() (*catalog.Catalog, catalogModels.State, error)
}

// Service owns the appointment store and serializes every access to it.
type Service struct {
	mu      sync.Mutex
	store   *store.AppointmentStore
	catalog CatalogProvider

	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	slot     time.Duration
	layout   string
	location *time.Location
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithSlotDuration sets the per-position wait used by WaitTimes.
func WithSlotDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.slot = d
		}
	}
}

// WithTimeLayout sets the registeredAt format.
func WithTimeLayout(layout string) Option {
	return func(s *Service) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// WithLocation sets the zone registeredAt is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New constructs a Service over an already hydrated store.
func New(st *store.AppointmentStore, catalog CatalogProvider, opts ...Option) *Service {
	s := &Service{
		store:    st,
		catalog:  catalog,
		slot:     report.DefaultSlot,
		layout:   "15:04:05",
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.setQueueLength(st.Len())
	return s
}

// Register validates the candidate and appends a new appointment. The first
// failing check wins: empty name, digit in name, age, specialty.
func (s *Service) Register(ctx context.Context, c models.Candidate) (models.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "queue.Register")
	defer span.End()
	requestID := requestcontext.RequestID(ctx)

	name, age, specialty, err := s.validate(c)
	if err != nil {
		s.incrementRejected(err)
		s.logger.InfoContext(ctx, "registration rejected",
			"request_id", requestID,
			"code", string(dErrors.CodeOf(err)),
		)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return models.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Appointment{
		ID:           s.store.NextID(),
		PatientName:  name,
		Age:          age,
		Specialty:    specialty.Name,
		Doctor:       specialty.Doctor,
		RegisteredAt: requestcontext.Now(ctx).In(s.location).Format(s.layout),
	}
	s.store.Append(a)
	if err := s.persist(ctx); err != nil {
		s.store.Remove(a.ID)
		s.logger.ErrorContext(ctx, "failed to persist appointment",
			"request_id", requestID,
			"appointment_id", a.ID,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return models.Appointment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist appointment")
	}

	span.SetAttributes(attribute.Int("appointment.id", a.ID), attribute.String("appointment.doctor", a.Doctor))
	s.incrementRegistered()
	s.setQueueLength(s.store.Len())
	s.logger.InfoContext(ctx, "appointment registered",
		"request_id", requestID,
		"appointment_id", a.ID,
		"specialty", a.Specialty,
		"doctor", a.Doctor,
	)
	return a, nil
}

func (s *Service) validate(c models.Candidate) (string, int, catalogModels.Specialty, error) {
	name := strings.TrimSpace(c.PatientName)
	if name == "" {
		return "", 0, catalogModels.Specialty{}, models.ErrEmptyName
	}
	if pstrings.ContainsASCIIDigit(name) {
		return "", 0, catalogModels.Specialty{}, models.ErrNameContainsDigit
	}
	age, err := strconv.Atoi(strings.TrimSpace(c.Age))
	if err != nil || age <= 0 || age > maxAge {
		return "", 0, catalogModels.Specialty{}, models.ErrInvalidAge
	}
	specialty, err := s.resolveSpecialty(c)
	if err != nil {
		return "", 0, catalogModels.Specialty{}, err
	}
	return name, age, specialty, nil
}

// resolveSpecialty prefers the stable key and falls back to the catalog
// position. Nothing resolves before the catalog is ready.
func (s *Service) resolveSpecialty(c models.Candidate) (catalogModels.Specialty, error) {
	cat, state, _ := s.catalog.Current()
	if state != catalogModels.StateReady {
		return catalogModels.Specialty{}, models.ErrCatalogNotReady
	}
	var (
		specialty catalogModels.Specialty
		ok        bool
	)
	switch {
	case c.SpecialtyKey != "":
		specialty, ok = cat.Resolve(c.SpecialtyKey)
	case c.SpecialtyIndex != nil:
		specialty, ok = cat.ResolveIndex(*c.SpecialtyIndex)
	}
	if !ok {
		return catalogModels.Specialty{}, models.ErrSpecialtyNotSelected
	}
	return specialty, nil
}

// Remove deletes the appointment with the given id. Remaining ids are kept.
func (s *Service) Remove(ctx context.Context, id int) (models.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "queue.Remove", trace.WithAttributes(attribute.Int("appointment.id", id)))
	defer span.End()
	requestID := requestcontext.RequestID(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.store.IndexOf(id)
	if idx < 0 {
		s.logger.InfoContext(ctx, "appointment not found",
			"request_id", requestID,
			"appointment_id", id,
		)
		span.SetStatus(codes.Error, string(dErrors.CodeNotFound))
		return models.Appointment{}, models.ErrNotFound(id)
	}
	removed, _ := s.store.Remove(id)
	if err := s.persist(ctx); err != nil {
		s.store.Restore(idx, removed)
		s.logger.ErrorContext(ctx, "failed to persist removal",
			"request_id", requestID,
			"appointment_id", id,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return models.Appointment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist removal")
	}

	s.incrementRemoved()
	s.setQueueLength(s.store.Len())
	s.logger.InfoContext(ctx, "appointment removed",
		"request_id", requestID,
		"appointment_id", id,
	)
	return removed, nil
}

// FilterByDoctor returns the queue, or only the given doctor's appointments,
// in queue order.
func (s *Service) FilterByDoctor(ctx context.Context, doctor string) []models.Appointment {
	_, span := s.tracer.Start(ctx, "queue.FilterByDoctor", trace.WithAttributes(attribute.String("doctor", doctor)))
	defer span.End()

	return report.FilterByDoctor(s.snapshot(), doctor)
}

// WaitTimes estimates waits over the (optionally filtered) queue. An empty
// view yields models.ErrNoAppointments.
func (s *Service) WaitTimes(ctx context.Context, doctor string) (report.WaitTimeReport, error) {
	_, span := s.tracer.Start(ctx, "queue.WaitTimes", trace.WithAttributes(attribute.String("doctor", doctor)))
	defer span.End()

	view := report.FilterByDoctor(s.snapshot(), doctor)
	if len(view) == 0 {
		return report.WaitTimeReport{}, models.ErrNoAppointments
	}
	s.incrementReport("wait_times")
	return report.WaitTimes(view, doctor, s.slot), nil
}

// Statistics summarizes the (optionally filtered) queue. An empty view yields
// models.ErrNoAppointments.
func (s *Service) Statistics(ctx context.Context, doctor string) (report.StatisticsReport, error) {
	_, span := s.tracer.Start(ctx, "queue.Statistics", trace.WithAttributes(attribute.String("doctor", doctor)))
	defer span.End()

	view := report.FilterByDoctor(s.snapshot(), doctor)
	if len(view) == 0 {
		return report.StatisticsReport{}, models.ErrNoAppointments
	}
	s.incrementReport("statistics")
	return report.Statistics(view, doctor), nil
}

// Len reports the queue length.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func (s *Service) snapshot() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// persist must be called with s.mu held.
func (s *Service) persist(ctx context.Context) error {
	start := time.Now()
	err := s.store.Persist(ctx)
	if s.metrics != nil {
		s.metrics.ObservePersist(start, err)
	}
	return err
}

func (s *Service) incrementRegistered() {
	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
}

func (s *Service) incrementRemoved() {
	if s.metrics != nil {
		s.metrics.IncrementRemoved()
	}
}

func (s *Service) incrementRejected(err error) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
	}
}

func (s *Service) incrementReport(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementReport(kind)
	}
}

func (s *Service) setQueueLength(n int) {
	if s.metrics != nil {
		s.metrics.SetQueueLength(n)
	}
}
