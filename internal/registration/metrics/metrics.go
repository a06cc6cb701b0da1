package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module.
type Metrics struct {
	RegistrationsCreated   prometheus.Counter
	RegistrationsDuplicate prometheus.Counter
	RegistrationsUpdated   prometheus.Counter
	VehiclesDeleted        prometheus.Counter
	RegisterDuration       prometheus.Histogram
}

// New creates a Metrics instance with all registration module metrics registered.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_registrations_created_total",
			Help: "Total number of registrations that persisted a new vehicle",
		}),
		RegistrationsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_registrations_duplicate_total",
			Help: "Total number of register calls short-circuited by the plate idempotency check",
		}),
		RegistrationsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_registrations_updated_total",
			Help: "Total number of successful admin updates",
		}),
		VehiclesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_vehicles_deleted_total",
			Help: "Total number of vehicles deleted by id",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "motoreg_register_duration_seconds",
			Help:    "Duration of register operations including the store write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveRegister records the duration of a register operation.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
