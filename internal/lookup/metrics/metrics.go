package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the lookup module.
type Metrics struct {
	LookupsVerified prometheus.Counter
	LookupsRejected prometheus.Counter
	LookupsUnknown  prometheus.Counter
}

// New creates a Metrics instance with all lookup module metrics registered.
func New() *Metrics {
	return &Metrics{
		LookupsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_lookups_verified_total",
			Help: "Total number of lookup verifications where all fields matched",
		}),
		LookupsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_lookups_rejected_total",
			Help: "Total number of lookup verifications where a field differed",
		}),
		LookupsUnknown: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_lookups_unknown_total",
			Help: "Total number of lookup verifications against an unknown plate",
		}),
	}
}
