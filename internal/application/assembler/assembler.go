// Package assembler implements the State Assembler (component I): it
// orchestrates the route catalog, terminal resolver, upstream client,
// schedule lane resolver, vessel fuser, dock-arc tracker, and capacity
// deriver to produce one internally consistent Snapshot per request.
package assembler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/application/capacity"
	"github.com/abw750/ferryAPI3/internal/application/dockarc"
	"github.com/abw750/ferryAPI3/internal/application/fusion"
	"github.com/abw750/ferryAPI3/internal/application/lanecache"
	"github.com/abw750/ferryAPI3/internal/application/scheduling"
	"github.com/abw750/ferryAPI3/internal/domain/ferrors"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
	"github.com/abw750/ferryAPI3/internal/domain/route"
	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

// AssemblyObserver receives one event per completed BuildSnapshot call.
type AssemblyObserver interface {
	ObserveAssembly(routeID int, fallbackMode, upperSource, lowerSource string)
}

type noopAssemblyObserver struct{}

func (noopAssemblyObserver) ObserveAssembly(int, string, string, string) {}

// Assembler is component I.
type Assembler struct {
	catalog    *route.Catalog
	resolver   *route.TerminalResolver
	client     VesselClient
	laneCache  *lanecache.Cache
	fuser      *fusion.Fuser
	tracker    *dockarc.Tracker
	capDeriver *capacity.Deriver
	clock      shared.Clock
	observe    AssemblyObserver
}

// VesselClient is the full upstream surface the assembler needs, narrowed
// to an interface so tests can substitute a fake.
type VesselClient interface {
	FetchVessels(ctx context.Context) ([]NormalisedVessel, error)
	FetchTerminalSpaces(ctx context.Context) ([]upstreamapi.TerminalSpace, error)
	FetchSchedule(ctx context.Context, routeID int, dateText string) ([]upstreamapi.ScheduleRow, error)
}

// NormalisedVessel is the vessel shape the client adapter hands to the
// assembler: raw JSON already decoded and dates already parsed.
type NormalisedVessel = ferry.LiveVessel

// New builds an Assembler. ttl governs both the last-good lane cache and
// the last-good capacity cache, per spec.md §4.G ("Capacity TTL equals the
// lane TTL").
func New(
	catalog *route.Catalog,
	resolver *route.TerminalResolver,
	client VesselClient,
	clock shared.Clock,
	ttl time.Duration,
	observe AssemblyObserver,
) *Assembler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if observe == nil {
		observe = noopAssemblyObserver{}
	}
	laneCache := lanecache.New(ttl)
	return &Assembler{
		catalog:    catalog,
		resolver:   resolver,
		client:     client,
		laneCache:  laneCache,
		fuser:      fusion.New(laneCache),
		tracker:    dockarc.New(),
		capDeriver: capacity.New(ttl),
		clock:      clock,
		observe:    observe,
	}
}

type fetchResult struct {
	vessels     []NormalisedVessel
	vesselsErr  error
	spaces      []upstreamapi.TerminalSpace
	spacesErr   error
	schedule    []upstreamapi.ScheduleRow
	scheduleErr error
}

// BuildSnapshot is the core's single exposed synchronous operation:
// buildSnapshot(routeId) -> Snapshot | "unknown route".
func (a *Assembler) BuildSnapshot(ctx context.Context, routeID int) (*ferry.Snapshot, error) {
	rt, err := a.catalog.GetRoute(routeID)
	if err != nil {
		return nil, ferrors.NewUnknownRouteError(routeID)
	}

	now := a.clock.Now()
	terminals := a.resolver.Resolve(rt)

	fetched := a.fetchAll(ctx, routeID, now)

	scheduleResult := scheduling.Resolve(fetched.schedule, fetched.scheduleErr != nil, terminals.WestID)

	if scheduleResult.ScheduleError {
		snap := a.syntheticSnapshot(rt, terminals, now)
		a.observe.ObserveAssembly(routeID, string(snap.Meta.Fallback), string(snap.Meta.UpperSource), string(snap.Meta.LowerSource))
		return snap, nil
	}

	byVesselID := make(map[int]ferry.LiveVessel, len(fetched.vessels))
	for _, v := range fetched.vessels {
		byVesselID[v.VesselID] = v
	}

	upperResult := a.fuser.Fuse(routeID, scheduleResult.Upper, byVesselID, terminals, rt.CrossingMinutes, now)
	lowerResult := a.fuser.Fuse(routeID, scheduleResult.Lower, byVesselID, terminals, rt.CrossingMinutes, now)

	upper := upperResult.Lane
	lower := lowerResult.Lane
	// A lane with no schedule identity comes back without a known slot;
	// pin each lane to its own slot before per-slot dock tracking.
	upper.Slot = ferry.SlotUpper
	lower.Slot = ferry.SlotLower

	if upperResult.StaleSnapped {
		a.tracker.ApplyStaleSnap(routeID, &upper)
	} else {
		a.tracker.Apply(routeID, &upper, now)
	}
	if lowerResult.StaleSnapped {
		a.tracker.ApplyStaleSnap(routeID, &lower)
	} else {
		a.tracker.Apply(routeID, &lower, now)
	}

	westVesselID, eastVesselID := 0, 0
	if scheduleResult.Upper != nil {
		westVesselID = scheduleResult.Upper.VesselID // upper departs west by nominal convention
	}
	if scheduleResult.Lower != nil {
		eastVesselID = scheduleResult.Lower.VesselID
	}

	var westCap, eastCap *ferry.Capacity
	if fetched.spacesErr == nil {
		westCap = a.capDeriver.Derive(routeID, "west", terminals.WestID, terminals.EastID, westVesselID, fetched.spaces, now)
		eastCap = a.capDeriver.Derive(routeID, "east", terminals.EastID, terminals.WestID, eastVesselID, fetched.spaces, now)
	}

	meta := ferry.Meta{
		CorrelationID:      uuid.NewString(),
		VesselsStale:       fetched.vesselsErr != nil,
		TerminalSpaceStale: fetched.spacesErr != nil,
		ScheduleStale:      fetched.scheduleErr != nil,
		CapacityStale:      capacityStale(fetched.spacesErr, westCap, eastCap),
		UpperSource:        upper.Source,
		LowerSource:        lower.Source,
		AssembledAt:        now,
	}
	meta.Fallback, meta.Reason = classify(meta, fetched)

	snap := &ferry.Snapshot{
		Route:        routeEcho(rt, terminals),
		Upper:        upper,
		Lower:        lower,
		WestCapacity: westCap,
		EastCapacity: eastCap,
		Meta:         meta,
	}

	a.observe.ObserveAssembly(routeID, string(snap.Meta.Fallback), string(snap.Meta.UpperSource), string(snap.Meta.LowerSource))
	return snap, nil
}

// fetchAll fans out the three upstream fetches concurrently and awaits all
// three (fan-in barrier) before the assembly proceeds. now is captured
// before any I/O so every derived timestamp in the resulting snapshot is
// consistent with every other.
func (a *Assembler) fetchAll(ctx context.Context, routeID int, now time.Time) fetchResult {
	var wg sync.WaitGroup
	var result fetchResult

	wg.Add(3)
	go func() {
		defer wg.Done()
		result.vessels, result.vesselsErr = a.client.FetchVessels(ctx)
	}()
	go func() {
		defer wg.Done()
		result.spaces, result.spacesErr = a.client.FetchTerminalSpaces(ctx)
	}()
	go func() {
		defer wg.Done()
		dateText := now.Format("2006-01-02")
		result.schedule, result.scheduleErr = a.client.FetchSchedule(ctx, routeID, dateText)
	}()
	wg.Wait()

	return result
}

// syntheticSnapshot is emitted only when the schedule is completely
// unusable: both lanes are populated with placeholder timing fabricated
// from now and the route's crossing duration, preserving the snapshot
// schema so the UI never has to handle a "nothing to draw" case.
func (a *Assembler) syntheticSnapshot(rt route.Route, terminals route.TerminalIDs, now time.Time) *ferry.Snapshot {
	mkLane := func(slot ferry.Slot) ferry.Lane {
		return ferry.Lane{
			Slot:               slot,
			VesselName:         "Unknown",
			AtDock:             true,
			Direction:          ferry.DirectionUnknown,
			Phase:              ferry.PhaseUnknown,
			DotPosition:        0,
			LastUpdatedVessels: now,
			IsStale:            true,
			Source:             ferry.SourceMissing,
		}
	}

	return &ferry.Snapshot{
		Route: routeEcho(rt, terminals),
		Upper: mkLane(ferry.SlotUpper),
		Lower: mkLane(ferry.SlotLower),
		Meta: ferry.Meta{
			CorrelationID:      uuid.NewString(),
			VesselsStale:       true,
			TerminalSpaceStale: true,
			ScheduleStale:      true,
			CapacityStale:      true,
			UpperSource:        ferry.SourceMissing,
			LowerSource:        ferry.SourceMissing,
			Fallback:           ferry.FallbackSynthetic,
			Reason:             "synthetic_no_live_data",
			AssembledAt:        now,
		},
	}
}

// capacityStale reports whether the snapshot's capacity figures should be
// treated as degraded: the terminal-space feed errored outright, or either
// side could not be derived at all, or either derived side is itself
// flagged stale (last-good fallback rather than a fresh observation).
func capacityStale(spacesErr error, westCap, eastCap *ferry.Capacity) bool {
	if spacesErr != nil {
		return true
	}
	if westCap == nil || eastCap == nil {
		return true
	}
	return westCap.IsStale || eastCap.IsStale
}

func routeEcho(rt route.Route, terminals route.TerminalIDs) ferry.RouteEcho {
	return ferry.RouteEcho{
		ID:                rt.ID,
		Description:       rt.Description,
		WestTerminalID:    terminals.WestID,
		EastTerminalID:    terminals.EastID,
		WestTerminalLabel: strings.ToUpper(rt.WestTerminal),
		EastTerminalLabel: strings.ToUpper(rt.EastTerminal),
		CrossingMinutes:   rt.CrossingMinutes,
	}
}

// classify computes fallback.mode and reason per spec.md §4.I step 8.
func classify(meta ferry.Meta, fetched fetchResult) (ferry.FallbackMode, string) {
	bothLive := meta.UpperSource == ferry.SourceLive && meta.LowerSource == ferry.SourceLive
	anyFeedError := fetched.vesselsErr != nil || fetched.spacesErr != nil || fetched.scheduleErr != nil

	if bothLive && !anyFeedError {
		return ferry.FallbackLive, "ok"
	}

	var reasons []string
	if meta.UpperSource == ferry.SourceMissing || meta.LowerSource == ferry.SourceMissing {
		reasons = append(reasons, "missing_lane")
	}
	if meta.UpperSource == ferry.SourceStale || meta.LowerSource == ferry.SourceStale {
		reasons = append(reasons, "stale_lane")
	}
	if anyFeedError {
		reasons = append(reasons, "api_error")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "ok")
	}
	return ferry.FallbackPartial, strings.Join(dedupe(reasons), "_")
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
