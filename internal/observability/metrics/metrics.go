package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homerental_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homerental_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	entityWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homerental_entity_writes_total",
		Help: "Count of entity write operations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	activeRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "homerental_rentals_total",
		Help: "Number of stored rentals",
	})

	endedRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "homerental_rentals_ended",
		Help: "Number of stored rentals whose end date has passed",
	})

	expirySweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homerental_expiry_sweeps_total",
		Help: "Count of expiry sweep runs by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveEntityWrite counts a create/update/delete attempt with its result.
func ObserveEntityWrite(entity, operation, result string) {
	entityWrites.WithLabelValues(entity, operation, result).Inc()
}

// SetRentalCounts sets the stored/ended rental gauges from a sweep.
func SetRentalCounts(total, ended int) {
	if total < 0 {
		total = 0
	}
	if ended < 0 {
		ended = 0
	}
	activeRentals.Set(float64(total))
	endedRentals.Set(float64(ended))
}

// ObserveExpirySweep increments the sweep counter for the given result.
func ObserveExpirySweep(result string) {
	expirySweeps.WithLabelValues(result).Inc()
}
