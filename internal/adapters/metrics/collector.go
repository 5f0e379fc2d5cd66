// Package metrics wires the assembler's upstream calls and snapshot
// assembly into Prometheus collectors, generalizing the teacher's
// per-feed API metrics collector to the three ferry upstream feeds.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "ferry"
	subsystem = "dotstate"
)

// Collector holds every metric the assembler and upstream client emit. It
// satisfies upstreamapi.Observer without importing that package, keeping
// the dependency direction adapters -> metrics, not the reverse.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec

	assembliesTotal *prometheus.CounterVec
	laneSource      *prometheus.GaugeVec
	fallbackMode    *prometheus.GaugeVec
}

// NewCollector builds and registers a Collector against reg. Pass
// prometheus.NewRegistry() in tests to avoid global-registry collisions.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "upstream_requests_total",
			Help: "Total upstream requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream request duration by feed.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"feed"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "upstream_retries_total",
			Help: "Total retry attempts by feed.",
		}, []string{"feed"}),
		assembliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "assemblies_total",
			Help: "Total snapshot assemblies by route and fallback mode.",
		}, []string{"route_id", "fallback_mode"}),
		laneSource: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "lane_source",
			Help: "1 if the lane's last assembly used this source, else 0.",
		}, []string{"route_id", "slot", "source"}),
		fallbackMode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "fallback_mode",
			Help: "1 if the route's last assembly used this fallback mode, else 0.",
		}, []string{"route_id", "mode"}),
	}

	reg.MustRegister(c.requestsTotal, c.requestDuration, c.retriesTotal, c.assembliesTotal, c.laneSource, c.fallbackMode)
	return c
}

// ObserveRequest implements upstreamapi.Observer.
func (c *Collector) ObserveRequest(feed string, attempt int, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.requestsTotal.WithLabelValues(feed, outcome).Inc()
	c.requestDuration.WithLabelValues(feed).Observe(duration.Seconds())
}

// ObserveRetry implements upstreamapi.Observer.
func (c *Collector) ObserveRetry(feed string) {
	c.retriesTotal.WithLabelValues(feed).Inc()
}

// ObserveAssembly records one BuildSnapshot call's outcome.
func (c *Collector) ObserveAssembly(routeID int, fallbackMode string, upperSource, lowerSource string) {
	route := strconv.Itoa(routeID)
	c.assembliesTotal.WithLabelValues(route, fallbackMode).Inc()

	for _, mode := range []string{"live", "partial", "synthetic"} {
		v := 0.0
		if mode == fallbackMode {
			v = 1.0
		}
		c.fallbackMode.WithLabelValues(route, mode).Set(v)
	}
	for _, s := range []string{"live", "stale", "missing"} {
		upperV, lowerV := 0.0, 0.0
		if s == upperSource {
			upperV = 1.0
		}
		if s == lowerSource {
			lowerV = 1.0
		}
		c.laneSource.WithLabelValues(route, "upper", s).Set(upperV)
		c.laneSource.WithLabelValues(route, "lower", s).Set(lowerV)
	}
}
