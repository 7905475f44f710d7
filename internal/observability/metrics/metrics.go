package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters and gauges for the dialogue flows.
type ConversationMetrics struct {
	messagesTotal    *prometheus.CounterVec
	stageTransitions *prometheus.CounterVec
	dateResolutions  *prometheus.CounterVec
	messageLatency   *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxassist",
			Subsystem: "conversation",
			Name:      "messages_total",
			Help:      "Total processed inbound messages",
		}, []string{"stage", "concern"}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxassist",
			Subsystem: "conversation",
			Name:      "stage_transitions_total",
			Help:      "Total stage transitions",
		}, []string{"from", "to"}),
		dateResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxassist",
			Subsystem: "conversation",
			Name:      "date_resolutions_total",
			Help:      "Total natural-language date resolutions",
		}, []string{"strategy", "valid"}),
		messageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taxassist",
			Subsystem: "conversation",
			Name:      "message_latency_seconds",
			Help:      "Latency of message processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taxassist",
			Subsystem: "conversation",
			Name:      "active_sessions",
			Help:      "Currently live sessions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.stageTransitions, m.dateResolutions, m.messageLatency, m.activeSessions)
	return m
}

func (m *ConversationMetrics) ObserveMessage(stage, concern string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(stage, concern).Inc()
}

func (m *ConversationMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.stageTransitions.WithLabelValues(from, to).Inc()
}

func (m *ConversationMetrics) ObserveDateResolution(strategy string, valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.dateResolutions.WithLabelValues(strategy, label).Inc()
}

func (m *ConversationMetrics) ObserveMessageLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.messageLatency.WithLabelValues(stage).Observe(seconds)
}

func (m *ConversationMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
