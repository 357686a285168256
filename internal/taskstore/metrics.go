package taskstore

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests *prometheus.CounterVec
}

// newMetrics registers the store counters. A nil registry disables metrics.
func newMetrics(registry *prometheus.Registry) *metrics {
	if registry == nil {
		return nil
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskstore_requests_total",
				Help: "Task-store API requests by operation and status code",
			},
			[]string{"op", "code"},
		),
	}
	registry.MustRegister(m.requests)
	return m
}

func (m *metrics) observe(op string, code int) {
	if m != nil && m.requests != nil {
		m.requests.WithLabelValues(op, codeLabel(code)).Inc()
	}
}

func codeLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
