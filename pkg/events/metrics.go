package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	dispatched *prometheus.CounterVec
	failed     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	m := &metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Total number of dispatched form events.",
		}, []string{"event"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "failed_total",
			Help:      "Total number of form events whose listeners returned an error.",
		}, []string{"event"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent running listeners for a form event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
	}
	m.dispatched = registerOrExisting(reg, m.dispatched)
	m.failed = registerOrExisting(reg, m.failed)
	m.duration = registerOrExisting(reg, m.duration)
	return m
}

func registerOrExisting[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(event string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(event).Inc()
	if err != nil {
		m.failed.WithLabelValues(event).Inc()
	}
	m.duration.WithLabelValues(event).Observe(elapsed.Seconds())
}
