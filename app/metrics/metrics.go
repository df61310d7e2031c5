package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fincomb"

// Collector exposes Prometheus metrics for aggregation runs and the HTTP API.
type Collector struct {
	registry           *prometheus.Registry
	itemsParsed        *prometheus.CounterVec
	itemsDropped       *prometheus.CounterVec
	enrichmentFailures *prometheus.CounterVec
	articlesEmitted    *prometheus.CounterVec
	runsTotal          *prometheus.CounterVec
	runDuration        *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
}

func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		itemsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "items_parsed_total",
			Help:      "Items parsed from provider feeds.",
		}, []string{"provider"}),
		itemsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "items_dropped_total",
			Help:      "Parsed items not enriched, by reason.",
		}, []string{"provider", "reason"}),
		enrichmentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_failures_total",
			Help:      "Failed enrichment steps, by stage.",
		}, []string{"stage"}),
		articlesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_emitted_total",
			Help:      "Articles written to run outputs.",
		}, []string{"provider"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Aggregation runs, by outcome.",
		}, []string{"provider", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of aggregation runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"provider"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests.",
		}, []string{"method", "path", "status"}),
	}

	for _, collector := range []prometheus.Collector{
		c.itemsParsed, c.itemsDropped, c.enrichmentFailures,
		c.articlesEmitted, c.runsTotal, c.runDuration, c.requestTotal,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) ItemsParsed(provider string, n int) {
	c.itemsParsed.WithLabelValues(provider).Add(float64(n))
}

func (c *Collector) ItemsDropped(provider, reason string, n int) {
	if n <= 0 {
		return
	}
	c.itemsDropped.WithLabelValues(provider, reason).Add(float64(n))
}

func (c *Collector) EnrichmentFailed(stage string) {
	c.enrichmentFailures.WithLabelValues(stage).Inc()
}

func (c *Collector) ArticlesEmitted(provider string, n int) {
	c.articlesEmitted.WithLabelValues(provider).Add(float64(n))
}

func (c *Collector) RunFinished(provider, outcome string, duration time.Duration) {
	c.runsTotal.WithLabelValues(provider, outcome).Inc()
	c.runDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveRequest records one API request; path is the route template, not the raw URL.
func (c *Collector) ObserveRequest(method, path string, status int) {
	c.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
