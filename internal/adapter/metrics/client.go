package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClientMetrics holds Prometheus metrics for outgoing API requests.
type ClientMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// NewClientMetrics creates and registers request pipeline metrics on the given registry.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of API requests, by method and response status (0 when no response arrived).",
		}, []string{"method", "status_code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"method"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "errors_total",
			Help:      "Total number of classified request failures, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.ErrorsTotal)
	return m
}
