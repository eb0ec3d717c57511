package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for statistics evaluation.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec // HTTP requests by route and status code
	EdgesEvaluated  prometheus.Counter     // Edges passed through Compute
	InvalidMatrices prometheus.Counter     // Edges whose attached table failed validation
	BatchDuration   prometheus.Histogram   // Wall time of one batch evaluation
}

// NewMetrics creates and registers the metrics with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edgestats_http_requests_total",
		Help: "Total number of HTTP requests by route and status code",
	}, []string{"route", "code"})

	edgesEvaluated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edgestats_edges_evaluated_total",
		Help: "Total number of edges evaluated",
	})

	invalidMatrices := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edgestats_invalid_matrices_total",
		Help: "Total number of attached contingency tables that failed validation",
	})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "edgestats_batch_duration_seconds",
		Help:    "Time spent evaluating one answer set",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	reg.MustRegister(requestsTotal)
	reg.MustRegister(edgesEvaluated)
	reg.MustRegister(invalidMatrices)
	reg.MustRegister(batchDuration)

	return &Metrics{
		RequestsTotal:   requestsTotal,
		EdgesEvaluated:  edgesEvaluated,
		InvalidMatrices: invalidMatrices,
		BatchDuration:   batchDuration,
	}
}

// ObserveRequest counts one finished request
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveEdge counts one evaluated edge. hasTable and valid describe its table.
func (m *Metrics) ObserveEdge(hasTable, valid bool) {
	if m == nil {
		return
	}
	m.EdgesEvaluated.Inc()
	if hasTable && !valid {
		m.InvalidMatrices.Inc()
	}
}

// ObserveBatch records the duration of a batch started at start
func (m *Metrics) ObserveBatch(start time.Time) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(time.Since(start).Seconds())
}
