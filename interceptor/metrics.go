package interceptor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Metrics records request counters and latency for dispatched requests.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	deferred prometheus.Gauge
	skip     func(r *http.Request) bool
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithMetricsSkip excludes requests from the metrics, for example the scrape
// endpoint itself.
func WithMetricsSkip(skip func(r *http.Request) bool) MetricsOption {
	return func(m *Metrics) {
		m.skip = skip
	}
}

// NewMetrics creates the collectors under namespace and registers them.
func NewMetrics(reg prometheus.Registerer, namespace string, opts ...MetricsOption) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Dispatched HTTP requests by status code and method.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time from pre-handle to after-completion.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		deferred: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_deferred",
			Help:      "Requests waiting for an asynchronous completion.",
		}),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.deferred} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

type metricsStartKey struct{}

type deferredKey struct{}

// Interceptor returns the interceptor feeding the collectors.
func (m *Metrics) Interceptor() handler.Interceptor {
	skip := func(r *http.Request) bool {
		return m.skip != nil && m.skip(r)
	}

	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			if !skip(r) {
				handler.SetAttribute(r, metricsStartKey{}, time.Now())
			}
			return true, nil
		},
		AsyncStarted: func(w http.ResponseWriter, r *http.Request, h handler.Handler) error {
			if !skip(r) && handler.SetAttribute(r, deferredKey{}, true) {
				m.deferred.Inc()
			}
			return nil
		},
		After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
			if skip(r) {
				return nil
			}
			if deferred, _ := handler.Attribute(r, deferredKey{}).(bool); deferred {
				m.deferred.Dec()
			}

			status := statusOf(w, err)
			m.requests.WithLabelValues(strconv.Itoa(status), r.Method).Inc()

			if start, ok := handler.Attribute(r, metricsStartKey{}).(time.Time); ok {
				m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
			}
			return nil
		},
	}
}
