package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics records outcomes of assistant completion calls.
type ChatMetrics struct {
	duration *prometheus.HistogramVec
	success  prometheus.Counter
	failure  *prometheus.CounterVec
}

// NewChatMetrics registers the chat proxy metrics on the provided registerer.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	if reg == nil {
		return &ChatMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_completion_duration_seconds",
		Help:    "Duration of upstream completion calls in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"model"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_completion_success_total",
		Help: "Successful completion calls.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_completion_failure_total",
		Help: "Failed completion calls by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, success, failure)
	return &ChatMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveCompletion records the duration of one upstream call.
func (c *ChatMetrics) ObserveCompletion(model string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(model)).Observe(elapsed.Seconds())
}

// IncSuccess increments the success counter.
func (c *ChatMetrics) IncSuccess() {
	if c == nil || c.success == nil {
		return
	}
	c.success.Inc()
}

// IncFailure increments the failure counter for the given reason.
func (c *ChatMetrics) IncFailure(reason string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}
