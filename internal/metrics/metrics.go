// Package metrics holds the Prometheus collectors exported by the analytics
// engine and its HTTP surface.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "healthtracker"

type Analytics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	fallbacksTotal    *prometheus.CounterVec
	streakDaysScanned prometheus.Histogram
}

// NewAnalytics creates the collectors and registers them on registerer. A
// collector that is already registered is reused.
func NewAnalytics(registerer prometheus.Registerer) (*Analytics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_requests_total",
			Help:      "Total number of analytics requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Duration of analytics operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"operation"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_fallbacks_total",
			Help:      "Dashboard sub-fetches that failed and were replaced by a default",
		},
		[]string{"slot"},
	)
	streakDaysScanned := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "streak_days_scanned",
			Help:      "Number of calendar days read while computing a streak",
			Buckets:   []float64{1, 2, 7, 14, 30, 90, 180, 366},
		},
	)

	analytics := &Analytics{}
	var err error
	if analytics.requestsTotal, err = register(registerer, requestsTotal); err != nil {
		return nil, err
	}
	if analytics.requestDuration, err = register(registerer, requestDuration); err != nil {
		return nil, err
	}
	if analytics.fallbacksTotal, err = register(registerer, fallbacksTotal); err != nil {
		return nil, err
	}
	if analytics.streakDaysScanned, err = register(registerer, streakDaysScanned); err != nil {
		return nil, err
	}
	return analytics, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return collector, nil
}

// ObserveRequest records one analytics call. A nil receiver is a no-op so
// callers can run without metrics.
func (analytics *Analytics) ObserveRequest(operation string, status string, elapsed time.Duration) {
	if analytics == nil {
		return
	}
	analytics.requestsTotal.WithLabelValues(operation, status).Inc()
	analytics.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (analytics *Analytics) DashboardFallback(slot string) {
	if analytics == nil {
		return
	}
	analytics.fallbacksTotal.WithLabelValues(slot).Inc()
}

func (analytics *Analytics) ObserveStreakScan(days int) {
	if analytics == nil {
		return
	}
	analytics.streakDaysScanned.Observe(float64(days))
}
