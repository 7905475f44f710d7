package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConversationMetricsObserve(t *testing.T) {
	m := NewConversationMetrics(prometheus.NewRegistry())
	m.ObserveMessage("greeting", "")
	m.ObserveTransition("greeting", "problem_identification")
	m.ObserveDateResolution("relative_day", true)
	m.ObserveMessageLatency("greeting", 0.02)
	m.SetActiveSessions(3)
}

func TestConversationMetricsNilSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveMessage("greeting", "")
	m.ObserveTransition("a", "b")
	m.ObserveDateResolution("explicit_date", false)
	m.ObserveMessageLatency("greeting", 0.1)
	m.SetActiveSessions(0)
}
