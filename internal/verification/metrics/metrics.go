package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	VerificationsMatched    prometheus.Counter
	VerificationsMismatched prometheus.Counter
	VerificationsNotFound   prometheus.Counter
}

// New creates a Metrics instance with all verification module metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_verifications_matched_total",
			Help: "Total number of verifications where every submitted field matched",
		}),
		VerificationsMismatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_verifications_mismatched_total",
			Help: "Total number of verifications that found at least one mismatch",
		}),
		VerificationsNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motoreg_verifications_not_found_total",
			Help: "Total number of verifications rejected because a record was missing",
		}),
	}
}
