package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics counts dispatch outcomes per channel.
type NotificationMetrics struct {
	sent    *prometheus.CounterVec
	failed  *prometheus.CounterVec
	skipped *prometheus.CounterVec
}

// NewNotificationMetrics registers notification counters on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sent",
		Help: "Notifications delivered per channel.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failed",
		Help: "Notification delivery failures per channel.",
	}, []string{"channel"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_skipped",
		Help: "Notifications skipped because the channel was disabled or unconfigured.",
	}, []string{"channel"})
	reg.MustRegister(sent, failed, skipped)
	return &NotificationMetrics{sent: sent, failed: failed, skipped: skipped}
}

// IncSent increments the delivered counter for the channel.
func (n *NotificationMetrics) IncSent(channel string) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailed increments the failure counter for the channel.
func (n *NotificationMetrics) IncFailed(channel string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncSkipped increments the skipped counter for the channel.
func (n *NotificationMetrics) IncSkipped(channel string) {
	if n == nil || n.skipped == nil {
		return
	}
	n.skipped.WithLabelValues(normalizeLabel(channel)).Inc()
}
