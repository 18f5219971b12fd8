package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle activity.
type OrderMetrics struct {
	created     prometheus.Counter
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through the intake wizard.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Committed order status transitions.",
	}, []string{"from", "to"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_rejected_total",
		Help: "Order status transitions rejected by the lifecycle rules.",
	}, []string{"from", "to"})
	reg.MustRegister(created, transitions, rejected)
	return &OrderMetrics{created: created, transitions: transitions, rejected: rejected}
}

// IncCreated counts a freshly created order.
func (m *OrderMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

// IncTransition counts a committed transition.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncRejected counts a transition refused by the lifecycle rules.
func (m *OrderMetrics) IncRejected(from, to string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// AdvisorMetrics records analysis advisor activity.
type AdvisorMetrics struct {
	requests  prometheus.Counter
	fallbacks *prometheus.CounterVec
}

// NewAdvisorMetrics registers the advisor metrics on the provided registerer.
func NewAdvisorMetrics(reg prometheus.Registerer) *AdvisorMetrics {
	if reg == nil {
		return &AdvisorMetrics{}
	}
	requests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_requests_total",
		Help: "Analysis advisor calls attempted.",
	})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_fallbacks_total",
		Help: "Advisor calls that degraded to the built-in fallback advisory.",
	}, []string{"kind"})
	reg.MustRegister(requests, fallbacks)
	return &AdvisorMetrics{requests: requests, fallbacks: fallbacks}
}

// IncRequest counts an advisor call attempt.
func (m *AdvisorMetrics) IncRequest() {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.Inc()
}

// IncFallback counts a degraded advisory by failure kind.
func (m *AdvisorMetrics) IncFallback(kind string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
