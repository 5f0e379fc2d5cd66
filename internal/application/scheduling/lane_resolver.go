// Package scheduling implements the Schedule Lane Resolver (component D):
// a pure function from today's schedule rows to the route's two
// schedule-derived lane identities.
package scheduling

import (
	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
)

// Result is the resolver's output: the two lane identities (nil if
// unresolved) plus whether the schedule itself was usable.
type Result struct {
	Upper         *ferry.LaneIdentity
	Lower         *ferry.LaneIdentity
	ScheduleError bool
}

// Resolve picks lane identities from today's schedule rows, keeping only
// rows departing westTerminalID, and within that subset taking the first
// vesselPositionNum==1 row as upper and the first ==2 row as lower.
//
// Lane identity is schedule-derived and therefore stable across the day and
// across direction reversals — unlike live telemetry, which flips as soon
// as a vessel reverses course.
func Resolve(rows []upstreamapi.ScheduleRow, scheduleFetchFailed bool, westTerminalID int) Result {
	if scheduleFetchFailed {
		return Result{ScheduleError: true}
	}

	var upper, lower *ferry.LaneIdentity
	for _, row := range rows {
		if row.DepartingTerminalID != westTerminalID || row.IsCancelled {
			continue
		}
		switch row.VesselPositionNum {
		case 1:
			if upper == nil {
				upper = &ferry.LaneIdentity{Slot: ferry.SlotUpper, VesselID: row.VesselID, VesselName: row.VesselName}
			}
		case 2:
			if lower == nil {
				lower = &ferry.LaneIdentity{Slot: ferry.SlotLower, VesselID: row.VesselID, VesselName: row.VesselName}
			}
		}
	}

	return Result{
		Upper:         upper,
		Lower:         lower,
		ScheduleError: upper == nil && lower == nil,
	}
}
