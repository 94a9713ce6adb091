// Package telemetry turns gateway events into Prometheus metrics.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spetersoncode/aigate/client"
)

const namespace = "aigate"

// Metrics records gateway events as Prometheus series.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	attempts  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	rotations *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	exhausted *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Gateway calls by operation and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Gateway call latency including every attempt.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"operation"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Latency of single provider attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_rotations_total",
			Help:      "Rotations to the next credential after a rate limit.",
		}, []string{"provider"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Fallbacks by the provider fallen back to.",
		}, []string{"provider"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_providers_total",
			Help:      "Providers passed over because they lack a capability.",
		}, []string{"provider", "operation"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhausted_total",
			Help:      "Calls that failed after every provider was tried.",
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.attempts, m.latency,
			m.rotations, m.fallbacks, m.skipped, m.exhausted)
	}
	return m
}

// Observe records one event.
func (m *Metrics) Observe(e client.Event) {
	op := string(e.Operation)
	switch e.Type {
	case client.EventRequestComplete:
		m.requests.WithLabelValues(op, "success").Inc()
		m.duration.WithLabelValues(op).Observe(e.Duration.Seconds())
	case client.EventRequestError:
		m.requests.WithLabelValues(op, "error").Inc()
		m.duration.WithLabelValues(op).Observe(e.Duration.Seconds())
	case client.EventRetry:
		if e.RetryEvent != nil {
			m.observeAttempt(e.RetryEvent)
		}
	}
}

func (m *Metrics) observeAttempt(re *client.RetryEvent) {
	provider := string(re.Provider)
	switch re.Type {
	case client.RetryEventSuccess, client.RetryEventAttemptFailed:
		m.attempts.WithLabelValues(provider, re.Outcome.String()).Inc()
		m.latency.WithLabelValues(provider).Observe(re.Duration.Seconds())
	case client.RetryEventRotated:
		m.rotations.WithLabelValues(provider).Inc()
	case client.RetryEventFallback:
		m.fallbacks.WithLabelValues(provider).Inc()
	case client.RetryEventSkipped:
		m.skipped.WithLabelValues(provider, string(re.Operation)).Inc()
	case client.RetryEventExhausted:
		m.exhausted.WithLabelValues(string(re.Operation)).Inc()
	}
}

// Consume observes events until ch is closed or ctx is done. If next is
// non-nil each event is also handed to it.
func (m *Metrics) Consume(ctx context.Context, ch <-chan client.Event, next func(client.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			m.Observe(e)
			if next != nil {
				next(e)
			}
		}
	}
}
