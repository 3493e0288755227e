package observability

import (
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
)

// Metrics exports HTTP and unit-of-work signals to Prometheus.
type Metrics struct {
	registry    *promclient.Registry
	apiRequests *promclient.CounterVec
	apiLatency  *promclient.HistogramVec
	apiInflight promclient.Gauge
	opLatency   *promclient.HistogramVec
	opTotal     *promclient.CounterVec
	conflicts   *promclient.CounterVec
}

var _ aggregates.Hooks = (*Metrics)(nil)

// NewMetrics registers every collector on a private registry together with
// the Go runtime and process collectors.
func NewMetrics(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = "materialhub"
	}
	m := &Metrics{
		registry: promclient.NewRegistry(),
		apiRequests: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: promclient.NewHistogramVec(promclient.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   promclient.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: promclient.NewGauge(promclient.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		opLatency: promclient.NewHistogramVec(promclient.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of material and entity operations.",
			Buckets:   promclient.DefBuckets,
		}, []string{"operation"}),
		opTotal: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Material and entity operations by outcome.",
		}, []string{"operation", "status"}),
		conflicts: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Name:      "store_conflicts_total",
			Help:      "Operations failed by a store conflict.",
		}, []string{"operation"}),
	}
	for _, c := range []promclient.Collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.opLatency, m.opTotal, m.conflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) ApiInflightInc() { m.apiInflight.Inc() }
func (m *Metrics) ApiInflightDec() { m.apiInflight.Dec() }

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveOperation(name, status string, dur time.Duration) {
	m.opTotal.WithLabelValues(name, status).Inc()
	m.opLatency.WithLabelValues(name).Observe(dur.Seconds())
}

func (m *Metrics) IncConflict(name string) {
	m.conflicts.WithLabelValues(name).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *promclient.Registry { return m.registry }
