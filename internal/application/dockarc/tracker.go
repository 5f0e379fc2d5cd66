// Package dockarc implements the Dock-Arc Tracker (component F): per-route,
// per-slot memory of dock entry times, the only state that must survive
// across requests to avoid losing the moment a vessel actually docked.
package dockarc

import (
	"sync"
	"time"

	"github.com/abw750/ferryAPI3/internal/domain/ferry"
)

type key struct {
	routeID int
	slot    ferry.Slot
}

type memory struct {
	atDock        bool
	dockStartTime *time.Time
	synthetic     bool
}

// Tracker is a single coarse-locked map, matching the teacher's health
// monitor's per-ship watch map: updates happen at most twice per assembly.
type Tracker struct {
	mu sync.Mutex
	m  map[key]memory
}

func New() *Tracker {
	return &Tracker{m: make(map[key]memory)}
}

// Apply annotates lane with dock-start timing per §4.F and records the new
// memory for routeID/slot. lane is mutated in place.
func (t *Tracker) Apply(routeID int, lane *ferry.Lane, now time.Time) {
	t.mu.Lock()
	prev, hadPrev := t.m[key{routeID, lane.Slot}]
	t.mu.Unlock()

	if !lane.AtDock {
		lane.DockStartTime = nil
		lane.DockStartIsSynthetic = false
		lane.DockArcFraction = nil
		t.store(routeID, lane.Slot, memory{atDock: false})
		return
	}

	switch {
	case hadPrev && prev.atDock && prev.dockStartTime != nil:
		// Still docked since the last observation: keep the original start.
		lane.DockStartTime = prev.dockStartTime
		lane.DockStartIsSynthetic = prev.synthetic

	case hadPrev && (!prev.atDock || prev.dockStartTime == nil):
		// Either a real not-docked -> docked transition, or the first live
		// confirmation after a stale-and-past-ETA snap that deliberately
		// left dockStartTime unset (see ApplyStaleSnap). Both are treated
		// as the observable moment of docking.
		start := now
		lane.DockStartTime = &start
		lane.DockStartIsSynthetic = false

	default:
		// No usable history at all (process boot): synthesize a boot
		// approximation.
		start := syntheticBootStart(lane.ScheduledDeparture, now)
		lane.DockStartTime = &start
		lane.DockStartIsSynthetic = true
	}

	if lane.DockStartTime != nil {
		frac := dockArcFraction(now, *lane.DockStartTime)
		lane.DockArcFraction = &frac
	}

	t.store(routeID, lane.Slot, memory{
		atDock:        true,
		dockStartTime: lane.DockStartTime,
		synthetic:     lane.DockStartIsSynthetic,
	})
}

// ApplyStaleSnap records the forced-docked state of a stale-and-past-ETA
// lane (fusion's stale-snap rule) WITHOUT running the usual transition or
// boot-synthesis logic. Per the open question in spec.md §9, the source
// does not specify whether the dock arc should start accumulating here, so
// dockStartTime is deliberately left null; the next live observation is
// what populates it (via Apply's transition branch above).
func (t *Tracker) ApplyStaleSnap(routeID int, lane *ferry.Lane) {
	lane.DockStartTime = nil
	lane.DockStartIsSynthetic = false
	lane.DockArcFraction = nil
	t.store(routeID, lane.Slot, memory{atDock: true, dockStartTime: nil, synthetic: false})
}

func (t *Tracker) store(routeID int, slot ferry.Slot, m memory) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[key{routeID, slot}] = m
}

// syntheticBootStart approximates when a vessel with no known dock history
// must have docked: 25 minutes before its scheduled departure, clamped to
// not exceed now. If scheduledDeparture is absent, use now.
func syntheticBootStart(scheduledDeparture *time.Time, now time.Time) time.Time {
	if scheduledDeparture == nil {
		return now
	}
	start := scheduledDeparture.Add(-25 * time.Minute)
	if start.After(now) {
		return now
	}
	return start
}

func dockArcFraction(now, dockStartTime time.Time) float64 {
	elapsed := now.Sub(dockStartTime)
	if elapsed <= 0 {
		return 0
	}
	frac := elapsed.Seconds() / 3600.0
	if frac > 1 {
		return 1
	}
	return frac
}
