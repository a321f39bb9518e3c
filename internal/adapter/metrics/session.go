package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics holds Prometheus metrics for the session store.
type SessionMetrics struct {
	MutationsTotal  *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	RestoresTotal   *prometheus.CounterVec
}

// NewSessionMetrics creates and registers session store metrics on the given registry.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "mutations_total",
			Help:      "Total number of session mutations, by operation.",
		}, []string{"operation"}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "persist_failures_total",
			Help:      "Total number of failed writes of the persisted session, by operation.",
		}, []string{"operation"}),
		RestoresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "restores_total",
			Help:      "Total number of session restores at startup, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.MutationsTotal, m.PersistFailures, m.RestoresTotal)
	return m
}
