// Package metrics records resolution events as Prometheus metrics.
//
// A [Collector] implements the hook interfaces of package observability.
// Install it once at startup; the metrics live on the collector's own
// registry and can be written as a node-exporter textfile after a run:
//
//	c := metrics.New()
//	c.Install()
//	defer observability.Reset()
//	... resolve mods ...
//	err := c.WriteTextfile("/var/lib/node_exporter/modstack.prom")
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/modstack/pkg/buildinfo"
	errs "github.com/matzehuels/modstack/pkg/errors"
	"github.com/matzehuels/modstack/pkg/observability"
)

const namespace = "modstack"

var (
	_ observability.ResolveHooks = (*Collector)(nil)
	_ observability.CacheHooks   = (*Collector)(nil)
)

// Collector turns resolution hooks into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	buildInfo       *prometheus.GaugeVec
	resolveTotal    *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	graphVertices   prometheus.Histogram
	graphEdges      prometheus.Histogram
	traverseTotal   *prometheus.CounterVec
	loadOrderLength prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheFills      prometheus.Counter
}

// New creates a collector with its metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build information of the running binary, always 1.",
			},
			[]string{"version", "commit"},
		),
		resolveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolve_total",
				Help:      "Number of resolve calls that missed the cache, by result.",
			},
			[]string{"result"},
		),
		resolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time taken to build and check a dependency graph.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		graphVertices: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_vertices",
				Help:      "Number of mods in each successfully built dependency graph.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		graphEdges: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_edges",
				Help:      "Number of dependency edges in each successfully built graph.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		traverseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "traverse_total",
				Help:      "Number of load order traversals, by result.",
			},
			[]string{"result"},
		),
		loadOrderLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_order_length",
				Help:      "Number of mods in each computed load order.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolve_cache_hits_total",
				Help:      "Resolve calls answered from a mod's cached dependencies.",
			},
		),
		cacheFills: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolve_cache_fills_total",
				Help:      "Dependency mods resolved as a side effect of resolving another mod.",
			},
		),
	}
	c.registry.MustRegister(
		c.buildInfo,
		c.resolveTotal,
		c.resolveDuration,
		c.graphVertices,
		c.graphEdges,
		c.traverseTotal,
		c.loadOrderLength,
		c.cacheHits,
		c.cacheFills,
	)
	c.buildInfo.WithLabelValues(buildinfo.Version, buildinfo.ShortCommit()).Set(1)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Install registers c as the global resolve and cache hooks.
// Call observability.Reset to uninstall.
func (c *Collector) Install() {
	observability.SetResolveHooks(c)
	observability.SetCacheHooks(c)
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write metrics to %s", path)
	}
	return nil
}

func (c *Collector) OnResolveStart(string) {}

func (c *Collector) OnResolveComplete(_ string, vertices, edges int, d time.Duration, err error) {
	c.resolveTotal.WithLabelValues(result(err)).Inc()
	c.resolveDuration.Observe(d.Seconds())
	if err == nil {
		c.graphVertices.Observe(float64(vertices))
		c.graphEdges.Observe(float64(edges))
	}
}

func (c *Collector) OnTraverse(_ string, length int, _ time.Duration, err error) {
	c.traverseTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		c.loadOrderLength.Observe(float64(length))
	}
}

func (c *Collector) OnCacheHit(string) { c.cacheHits.Inc() }

func (c *Collector) OnCacheFill(string, int) { c.cacheFills.Inc() }

// result maps an error to a bounded label value: "ok", or the lower-cased
// error code ("mod_not_found", "dependency_cycle", ...).
func result(err error) string {
	if err == nil {
		return "ok"
	}
	code := errs.GetCode(err)
	if code == "" {
		return "error"
	}
	return strings.ToLower(string(code))
}
