package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

// Metrics records serializer, renderer and HTTP events in an isolated
// Prometheus registry. It implements the observability hook interfaces.
type Metrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration prometheus.Histogram
	decodeTotal     *prometheus.CounterVec

	treeBuilds    prometheus.Counter
	treeNodes     prometheus.Histogram
	pageChanges   prometheus.Counter
	loadMore      prometheus.Counter
	secretReveals *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		processTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "options_process_total",
			Help:      "Option-set serializations by universe and result code.",
		}, []string{"universe", "result"}),
		processDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dhcpdash",
			Name:      "options_process_duration_seconds",
			Help:      "Duration of option-set serializations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		decodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "options_decode_total",
			Help:      "Wire-to-form conversions by result code.",
		}, []string{"result"}),
		treeBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "tree_builds_total",
			Help:      "Trees built over a new value.",
		}),
		treeNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dhcpdash",
			Name:      "tree_nodes",
			Help:      "Nodes built for a new tree.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		pageChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "tree_page_changes_total",
			Help:      "Applied page changes.",
		}),
		loadMore: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "tree_load_more_total",
			Help:      "Recursion placeholders expanded.",
		}),
		secretReveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "tree_secret_reveals_total",
			Help:      "Secret reveal requests by outcome.",
		}, []string{"allowed"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dhcpdash",
			Name:      "http_requests_total",
			Help:      "Served API requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dhcpdash",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.processTotal, m.processDuration, m.decodeTotal,
		m.treeBuilds, m.treeNodes, m.pageChanges, m.loadMore, m.secretReveals,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetSerializerHooks(m)
	observability.SetRenderHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return string(errors.ErrCodeInternal)
}

func (m *Metrics) OnProcess(universe int, _ int, duration time.Duration, err error) {
	m.processTotal.WithLabelValues(strconv.Itoa(universe), result(err)).Inc()
	m.processDuration.Observe(duration.Seconds())
}

func (m *Metrics) OnDecode(_ int, err error) {
	m.decodeTotal.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) OnBuild(nodeCount int, _ time.Duration) {
	m.treeBuilds.Inc()
	m.treeNodes.Observe(float64(nodeCount))
}

func (m *Metrics) OnPageApplied(int) { m.pageChanges.Inc() }

func (m *Metrics) OnLoadMore(int) { m.loadMore.Inc() }

func (m *Metrics) OnSecretRevealed(_ string, allowed bool) {
	m.secretReveals.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

var (
	_ observability.SerializerHooks = (*Metrics)(nil)
	_ observability.RenderHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks       = (*Metrics)(nil)
)
