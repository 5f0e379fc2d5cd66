// Package capacity implements the Capacity Deriver (component G): per side
// (west, east), it picks the next departing vessel's drive-on
// availability, applies sticky per-vessel maxima, and falls back to
// last-good capacity within a TTL.
package capacity

import (
	"sort"
	"sync"
	"time"

	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
)

const DefaultTTL = 10 * time.Minute

type sideKey struct {
	routeID int
	side    string // "west" or "east"
}

type lastGoodEntry struct {
	capacity ferry.Capacity
	observed time.Time
}

// Deriver derives per-side Capacity, holding the sticky-max map and the
// last-good capacity cache across calls.
type Deriver struct {
	ttl    time.Duration
	sticky *stickyMax

	mu       sync.Mutex
	lastGood map[sideKey]lastGoodEntry
}

func New(ttl time.Duration) *Deriver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Deriver{ttl: ttl, sticky: newStickyMax(), lastGood: make(map[sideKey]lastGoodEntry)}
}

type tuple struct {
	depTime    time.Time
	vesselID   int
	vesselName string
	rawMax     int
	driveUp    *int
}

// Derive computes the Capacity for one side. sideTerminalID is this side's
// terminal; oppositeTerminalID is the other side's; scheduledVesselID is
// the schedule-chosen lane's vessel ID for this side (0 if unresolved).
func (d *Deriver) Derive(
	routeID int,
	side string,
	sideTerminalID, oppositeTerminalID int,
	scheduledVesselID int,
	spaces []upstreamapi.TerminalSpace,
	now time.Time,
) *ferry.Capacity {
	tuples := collectTuples(spaces, sideTerminalID, oppositeTerminalID, now)

	chosen, matchedScheduled, ok := choose(tuples, scheduledVesselID)
	if !ok {
		return d.fallbackToLastGood(routeID, side, sideTerminalID, now)
	}

	maxAuto := d.sticky.Observe(chosen.vesselID, chosen.rawMax)

	availAuto := chosen.driveUp
	stale := !matchedScheduled
	if availAuto == nil {
		if lg, ok := d.lastGoodFor(routeID, side, now); ok && lg.AvailAuto != nil {
			availAuto = lg.AvailAuto
			stale = true
		}
	}

	c := ferry.Capacity{
		TerminalID:  sideTerminalID,
		VesselID:    intPtr(chosen.vesselID),
		VesselName:  chosen.vesselName,
		MaxAuto:     maxAuto,
		AvailAuto:   availAuto,
		LastUpdated: now,
		IsStale:     stale,
	}

	d.putLastGood(routeID, side, c, now)
	return &c
}

func collectTuples(spaces []upstreamapi.TerminalSpace, sideTerminalID, oppositeTerminalID int, now time.Time) []tuple {
	var out []tuple
	for _, ts := range spaces {
		if ts.TerminalID != sideTerminalID {
			continue
		}
		for _, dep := range ts.DepartingSpaces {
			if dep.Departure.Before(now) {
				continue
			}
			for _, arr := range dep.SpaceForArrivalTerminals {
				if arr.ArrivingTerminalID != oppositeTerminalID {
					continue
				}
				out = append(out, tuple{
					depTime:    dep.Departure,
					vesselID:   dep.VesselID,
					vesselName: dep.VesselName,
					rawMax:     arr.MaxSpaceCount,
					driveUp:    arr.DriveUpSpaceCount,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].depTime.Before(out[j].depTime) })
	return out
}

// choose picks the earliest tuple matching the scheduled vessel with a
// finite driveUp, falling back to the earliest tuple with a finite driveUp
// irrespective of vessel. Returns ok=false if neither exists.
func choose(tuples []tuple, scheduledVesselID int) (tuple, bool, bool) {
	if scheduledVesselID != 0 {
		for _, t := range tuples {
			if t.vesselID == scheduledVesselID && t.driveUp != nil {
				return t, true, true
			}
		}
	}
	for _, t := range tuples {
		if t.driveUp != nil {
			return t, false, true
		}
	}
	return tuple{}, false, false
}

func (d *Deriver) fallbackToLastGood(routeID int, side string, sideTerminalID int, now time.Time) *ferry.Capacity {
	lg, ok := d.lastGoodFor(routeID, side, now)
	if !ok {
		return nil
	}
	c := lg.Clone()
	c.TerminalID = sideTerminalID
	c.LastUpdated = now
	c.IsStale = true
	d.putLastGood(routeID, side, c, now)
	return &c
}

func (d *Deriver) lastGoodFor(routeID int, side string, now time.Time) (ferry.Capacity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.lastGood[sideKey{routeID, side}]
	if !ok || now.Sub(e.observed) > d.ttl {
		return ferry.Capacity{}, false
	}
	return e.capacity.Clone(), true
}

func (d *Deriver) putLastGood(routeID int, side string, c ferry.Capacity, observedAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastGood[sideKey{routeID, side}] = lastGoodEntry{capacity: c.Clone(), observed: observedAt}
}

func intPtr(v int) *int { return &v }
