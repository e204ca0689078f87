package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the appointment queue.
type Metrics struct {
	Registered       prometheus.Counter
	Removed          prometheus.Counter
	Rejected         *prometheus.CounterVec
	QueueLength      prometheus.Gauge
	PersistFailures  prometheus.Counter
	PersistDuration  prometheus.Histogram
	ReportsGenerated *prometheus.CounterVec
}

// New registers the queue metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Registered: f.NewCounter(prometheus.CounterOpts{
			Name: "turnero_appointments_registered_total",
			Help: "Total number of appointments registered",
		}),
		Removed: f.NewCounter(prometheus.CounterOpts{
			Name: "turnero_appointments_removed_total",
			Help: "Total number of appointments removed",
		}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "turnero_registrations_rejected_total",
			Help: "Registrations rejected by validation, by error code",
		}, []string{"code"}),
		QueueLength: f.NewGauge(prometheus.GaugeOpts{
			Name: "turnero_queue_length",
			Help: "Current number of appointments in the queue",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "turnero_persist_failures_total",
			Help: "Total number of failed queue writes",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "turnero_persist_duration_seconds",
			Help:    "Duration of full queue writes to the blob store",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ReportsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "turnero_reports_generated_total",
			Help: "Reports generated, by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementRegistered() { m.Registered.Inc() }

func (m *Metrics) IncrementRemoved() { m.Removed.Inc() }

// IncrementRejected records a validation rejection under its error code.
func (m *Metrics) IncrementRejected(code string) { m.Rejected.WithLabelValues(code).Inc() }

func (m *Metrics) SetQueueLength(n int) { m.QueueLength.Set(float64(n)) }

// ObservePersist records a write; call with time.Now() taken before the write.
func (m *Metrics) ObservePersist(start time.Time, err error) {
	m.PersistDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncrementReport(kind string) { m.ReportsGenerated.WithLabelValues(kind).Inc() }
