package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abw750/ferryAPI3/internal/adapters/metrics"
	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/application/assembler"
	"github.com/abw750/ferryAPI3/internal/domain/route"
	"github.com/abw750/ferryAPI3/internal/infrastructure/config"
	"github.com/abw750/ferryAPI3/internal/infrastructure/logging"
)

// buildAssembler wires the whole of components A-I from loaded config,
// the way the teacher's cmd mains wire repositories and handlers before
// handing them to the daemon server or CLI commands.
func buildAssembler(cfg *config.Config) (*assembler.Assembler, error) {
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	upstreamObserver := logging.NewUpstreamObserver(log)
	assemblyObserver := logging.NewAssemblyObserver(log)

	client, err := upstreamapi.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.AccessCode,
		upstreamapi.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		upstreamapi.WithRetryPolicy(cfg.Upstream.Retry.MaxAttempts-1, cfg.Upstream.Retry.Backoff),
		upstreamapi.WithObserver(multiObserver{a: upstreamObserver, b: collector}),
	)
	if err != nil {
		return nil, fmt.Errorf("building upstream client: %w", err)
	}

	catalog := route.DefaultCatalog()
	resolver := route.NewTerminalResolver(defaultTerminalNameTable())

	return assembler.New(catalog, resolver, client, nil, cfg.Cache.LaneTTL, multiAssemblyObserver{a: assemblyObserver, b: collector}), nil
}

// multiObserver fans ObserveRequest/ObserveRetry out to both the
// structured logger and the Prometheus collector.
type multiObserver struct {
	a upstreamapi.Observer
	b upstreamapi.Observer
}

func (m multiObserver) ObserveRequest(feed string, attempt int, duration time.Duration, err error) {
	m.a.ObserveRequest(feed, attempt, duration, err)
	m.b.ObserveRequest(feed, attempt, duration, err)
}

func (m multiObserver) ObserveRetry(feed string) {
	m.a.ObserveRetry(feed)
	m.b.ObserveRetry(feed)
}

// multiAssemblyObserver fans ObserveAssembly out to both the structured
// logger and the Prometheus collector.
type multiAssemblyObserver struct {
	a assembler.AssemblyObserver
	b assembler.AssemblyObserver
}

func (m multiAssemblyObserver) ObserveAssembly(routeID int, fallbackMode, upperSource, lowerSource string) {
	m.a.ObserveAssembly(routeID, fallbackMode, upperSource, lowerSource)
	m.b.ObserveAssembly(routeID, fallbackMode, upperSource, lowerSource)
}

// defaultTerminalNameTable seeds the upstream's numeric terminal IDs for
// the routes in route.DefaultCatalog, matching the WSF terminal list.
func defaultTerminalNameTable() map[string]int {
	return map[string]int{
		"Seattle":           7,
		"Bainbridge Island": 3,
		"Edmonds":           8,
		"Kingston":          12,
		"Mukilteo":          14,
		"Clinton":           4,
		"Fauntleroy":        9,
		"Vashon Island":     20,
		"Southworth":        18,
	}
}
