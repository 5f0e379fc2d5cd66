package logging

import (
	"time"

	"go.uber.org/zap"
)

// UpstreamObserver logs one structured event per upstream fetch attempt and
// one per retry, satisfying upstreamapi.Observer structurally (no import of
// that package here, avoiding a cycle between infrastructure and adapters).
type UpstreamObserver struct {
	log *zap.SugaredLogger
}

func NewUpstreamObserver(log *zap.SugaredLogger) *UpstreamObserver {
	return &UpstreamObserver{log: log}
}

func (o *UpstreamObserver) ObserveRequest(feed string, attempt int, duration time.Duration, err error) {
	if err != nil {
		o.log.Warnw("upstream fetch failed", "feed", feed, "attempt", attempt, "duration_ms", duration.Milliseconds(), "error", err)
		return
	}
	o.log.Debugw("upstream fetch ok", "feed", feed, "attempt", attempt, "duration_ms", duration.Milliseconds())
}

func (o *UpstreamObserver) ObserveRetry(feed string) {
	o.log.Infow("retrying upstream fetch", "feed", feed)
}

// AssemblyObserver logs one summary event per BuildSnapshot call,
// satisfying assembler.AssemblyObserver structurally.
type AssemblyObserver struct {
	log *zap.SugaredLogger
}

func NewAssemblyObserver(log *zap.SugaredLogger) *AssemblyObserver {
	return &AssemblyObserver{log: log}
}

func (o *AssemblyObserver) ObserveAssembly(routeID int, fallbackMode, upperSource, lowerSource string) {
	o.log.Infow("snapshot assembled",
		"route_id", routeID,
		"fallback_mode", fallbackMode,
		"upper_source", upperSource,
		"lower_source", lowerSource,
	)
}
