package agentd

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests    *prometheus.CounterVec
	brainErrors *prometheus.CounterVec
	modelCalls  *prometheus.CounterVec
}

// newMetrics registers the assistant counters. A nil registry disables metrics.
func newMetrics(registry *prometheus.Registry) *metrics {
	if registry == nil {
		return nil
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentd_requests_total",
				Help: "Chat requests by reply outcome",
			},
			[]string{"outcome"},
		),
		brainErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentd_brain_errors_total",
				Help: "Brain failures by brain name",
			},
			[]string{"brain"},
		),
		modelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentd_model_calls_total",
				Help: "Chat model call events by model and phase",
			},
			[]string{"model", "phase"},
		),
	}

	registry.MustRegister(m.requests, m.brainErrors, m.modelCalls)
	return m
}

func (m *metrics) request(outcome string) {
	if m != nil && m.requests != nil {
		m.requests.WithLabelValues(outcome).Inc()
	}
}

func (m *metrics) brainError(brain string) {
	if m != nil && m.brainErrors != nil {
		m.brainErrors.WithLabelValues(brain).Inc()
	}
}

func (m *metrics) modelCall(model, phase string) {
	if m != nil && m.modelCalls != nil {
		m.modelCalls.WithLabelValues(model, phase).Inc()
	}
}
