// Package fusion implements the Vessel Fuser (component E): joining
// schedule-derived lane identity with live vessel telemetry to produce the
// output Lane shape, with last-good-cache fallback when telemetry is
// missing.
package fusion

import (
	"time"

	"github.com/abw750/ferryAPI3/internal/application/lanecache"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
	"github.com/abw750/ferryAPI3/internal/domain/route"
)

// Fuser joins one schedule-derived lane identity with live telemetry.
type Fuser struct {
	cache *lanecache.Cache
}

func New(cache *lanecache.Cache) *Fuser {
	return &Fuser{cache: cache}
}

// Result is one fused lane plus whether the fuser's stale-snap rule forced
// it to "docked" because its cached ETA had already passed. The assembler
// needs this signal to route the lane through the Dock-Arc Tracker
// correctly: the stale-snap branch must NOT synthesize a fresh dock start
// (see dockarc.Tracker.ApplyStaleSnap).
type Result struct {
	Lane         ferry.Lane
	StaleSnapped bool
}

// Fuse produces the Lane for one slot. identity is nil when the schedule
// did not resolve this slot at all; the slot is then not known here, so the
// returned missing lane carries SlotUpper and the caller sets the real
// slot. terminals are the route's resolved
// west/east IDs (zero if unresolved) and crossingMinutes is the route's
// nominal crossing duration. routeID is used only to key the last-good
// cache.
func (f *Fuser) Fuse(
	routeID int,
	identity *ferry.LaneIdentity,
	byVesselID map[int]ferry.LiveVessel,
	terminals route.TerminalIDs,
	crossingMinutes int,
	now time.Time,
) Result {
	slot := ferry.SlotUpper
	if identity != nil {
		slot = identity.Slot
	}

	if identity == nil {
		return Result{Lane: f.missingLane(routeID, slot, now)}
	}

	live, found := byVesselID[identity.VesselID]
	if !found {
		return f.staleOrMissing(routeID, slot, now)
	}

	return Result{Lane: f.fuseLive(routeID, identity, live, terminals, crossingMinutes, now)}
}

func (f *Fuser) fuseLive(
	routeID int,
	identity *ferry.LaneIdentity,
	live ferry.LiveVessel,
	terminals route.TerminalIDs,
	crossingMinutes int,
	now time.Time,
) ferry.Lane {
	direction := resolveDirection(live, terminals, identity.Slot)

	leftDock := live.LeftDock
	if leftDock == nil {
		leftDock = live.ScheduledDeparture
	}

	eta := live.PredictedArrival
	if eta == nil && leftDock != nil && crossingMinutes > 0 {
		t := leftDock.Add(time.Duration(crossingMinutes) * time.Minute)
		eta = &t
	}

	dot := dotPosition(now, live.AtDock, leftDock, eta)

	phase := ferry.PhaseUnknown
	switch {
	case live.AtDock:
		phase = ferry.PhaseAtDock
	case eta != nil:
		phase = ferry.PhaseUnderway
	}

	lane := ferry.Lane{
		Slot:                identity.Slot,
		VesselID:            intPtr(identity.VesselID),
		VesselName:          identity.VesselName,
		AtDock:              live.AtDock,
		Direction:           direction,
		DepartingTerminalID: intPtr(live.DepartingTerminalID),
		ArrivingTerminalID:  intPtr(live.ArrivingTerminalID),
		ScheduledDeparture:  live.ScheduledDeparture,
		LeftDock:            leftDock,
		ETA:                 eta,
		Phase:               phase,
		DotPosition:         dot,
		CurrentArrivalTime:  eta,
		LastUpdatedVessels:  now,
		IsStale:             false,
		Source:              ferry.SourceLive,
	}

	f.cache.Put(routeID, identity.Slot, lane, now)
	return lane
}

// staleOrMissing is reached when the schedule named a vessel but it is not
// in the live feed: consult the last-good cache, applying the stale-snap
// rule, or fall back to a fully degraded lane.
func (f *Fuser) staleOrMissing(routeID int, slot ferry.Slot, now time.Time) Result {
	cached, ok := f.cache.Get(routeID, slot, now)
	if !ok {
		return Result{Lane: f.missingLane(routeID, slot, now)}
	}

	cached.IsStale = true
	cached.LastUpdatedVessels = now
	cached.Source = ferry.SourceStale

	// Stale-snap rule: a stale lane whose ETA has already passed must not
	// keep animating a phantom vessel past its arrival.
	staleSnapped := cached.ETA != nil && now.After(*cached.ETA)
	if staleSnapped {
		cached.AtDock = true
		cached.Phase = ferry.PhaseAtDock
		cached.DotPosition = 1
	}

	return Result{Lane: cached, StaleSnapped: staleSnapped}
}

func (f *Fuser) missingLane(routeID int, slot ferry.Slot, now time.Time) ferry.Lane {
	return ferry.Lane{
		Slot:               slot,
		VesselName:         "Unknown",
		AtDock:             true,
		Direction:          ferry.DirectionUnknown,
		Phase:              ferry.PhaseUnknown,
		DotPosition:        0,
		LastUpdatedVessels: now,
		IsStale:            false,
		Source:             ferry.SourceMissing,
	}
}

// resolveDirection implements the Direction sum type from the design notes:
// prefer the live terminals matched against the route's orientation,
// falling back to the slot's nominal direction only when neither
// orientation matches.
func resolveDirection(live ferry.LiveVessel, terminals route.TerminalIDs, slot ferry.Slot) ferry.Direction {
	switch {
	case live.DepartingTerminalID == terminals.WestID && live.ArrivingTerminalID == terminals.EastID:
		return ferry.DirectionWestToEast
	case live.DepartingTerminalID == terminals.EastID && live.ArrivingTerminalID == terminals.WestID:
		return ferry.DirectionEastToWest
	default:
		if slot == ferry.SlotUpper {
			return ferry.DirectionWestToEast
		}
		return ferry.DirectionEastToWest
	}
}

// dotPosition computes the normalised position along the crossing, guarding
// against division by zero and the at-dock/pre-departure/post-arrival edge
// cases spec.md §8 enumerates.
func dotPosition(now time.Time, atDock bool, leftDock, eta *time.Time) float64 {
	if atDock {
		return 0
	}
	if leftDock == nil || eta == nil {
		return 0
	}
	if now.Before(*leftDock) {
		return 0
	}
	total := eta.Sub(*leftDock)
	if total <= 0 {
		return 0
	}
	elapsed := now.Sub(*leftDock)
	frac := float64(elapsed) / float64(total)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

func intPtr(v int) *int { return &v }
