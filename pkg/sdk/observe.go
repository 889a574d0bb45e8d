package sdk

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// callMetrics counts and times SDK calls on a caller-supplied registry.
type callMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newCallMetrics(reg prometheus.Registerer) (*callMetrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviematch",
		Subsystem: "sdk",
		Name:      "calls_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moviematch",
		Subsystem: "sdk",
		Name:      "call_duration_seconds",
		Help:      "SDK call round-trip time in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"})

	var err error
	if calls, err = reuseOrRegister(reg, calls); err != nil {
		return nil, err
	}
	if duration, err = reuseOrRegister(reg, duration); err != nil {
		return nil, err
	}
	return &callMetrics{calls: calls, duration: duration}, nil
}

// reuseOrRegister lets several clients share one registry.
func reuseOrRegister[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("moviematch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("moviematch: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// outcome labels a call result. Expected API answers get their own label so
// dashboards can tell them from transport failures.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrNotFitted):
		return "not_fitted"
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrUnauthorized):
		return "rejected"
	default:
		return "error"
	}
}

// observer logs and measures SDK calls. Both sinks are optional.
type observer struct {
	logger  *slog.Logger
	metrics *callMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newCallMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	took := time.Since(start)
	label := outcome(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, label).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(took.Seconds())
	}
	if o.logger == nil {
		return
	}
	if label == "error" {
		o.logger.Warn("moviematch call failed", "op", op, "duration", took, "error", err)
		return
	}
	o.logger.Debug("moviematch call", "op", op, "outcome", label, "duration", took)
}
