package steps

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/application/assembler"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
	"github.com/abw750/ferryAPI3/internal/domain/route"
	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

// fakeClient is a hand-rolled stand-in for upstreamapi.Client, satisfying
// assembler.VesselClient so scenarios can script exact feed contents
// instead of standing up an HTTP server.
type fakeClient struct {
	vessels  map[int]ferry.LiveVessel
	spaces   map[int]*upstreamapi.TerminalSpace
	schedule []upstreamapi.ScheduleRow
}

func newFakeClient() *fakeClient {
	return &fakeClient{vessels: make(map[int]ferry.LiveVessel), spaces: make(map[int]*upstreamapi.TerminalSpace)}
}

func (f *fakeClient) FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error) {
	out := make([]ferry.LiveVessel, 0, len(f.vessels))
	for _, v := range f.vessels {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeClient) FetchTerminalSpaces(ctx context.Context) ([]upstreamapi.TerminalSpace, error) {
	out := make([]upstreamapi.TerminalSpace, 0, len(f.spaces))
	for _, s := range f.spaces {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeClient) FetchSchedule(ctx context.Context, routeID int, dateText string) ([]upstreamapi.ScheduleRow, error) {
	return f.schedule, nil
}

type dotstateContext struct {
	clock     *shared.MockClock
	rt        route.Route
	terminals route.TerminalIDs
	client    *fakeClient
	asm       *assembler.Assembler
	snapshot  *ferry.Snapshot
	err       error
}

func (d *dotstateContext) reset() {
	*d = dotstateContext{}
}

func (d *dotstateContext) setupRoute(westID, eastID, crossingMinutes int) error {
	d.clock = shared.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	d.rt = route.Route{ID: 1, Description: "Test Route", WestTerminal: "West", EastTerminal: "East", CrossingMinutes: crossingMinutes}
	d.terminals = route.TerminalIDs{WestID: westID, EastID: eastID}
	d.client = newFakeClient()

	catalog := route.NewCatalog([]route.Route{d.rt})
	resolver := route.NewTerminalResolver(map[string]int{"West": westID, "East": eastID})
	d.asm = assembler.New(catalog, resolver, d.client, d.clock, 10*time.Minute, nil)
	return nil
}

var relativeTimePattern = regexp.MustCompile(`^([+-])(\d+)([smh])$`)

func (d *dotstateContext) resolveRelativeTime(raw string) (time.Time, error) {
	m := relativeTimePattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, fmt.Errorf("dotstate steps: %q is not a relative time literal", raw)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, err
	}
	var unit time.Duration
	switch m[3] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	}
	delta := time.Duration(n) * unit
	if m[1] == "-" {
		delta = -delta
	}
	return d.clock.Now().Add(delta), nil
}

func (d *dotstateContext) scheduleNamesVesselAs(vesselID int, slot string) error {
	position := 1
	if slot == "lower" {
		position = 2
	}
	d.client.schedule = append(d.client.schedule, upstreamapi.ScheduleRow{
		RouteID:             d.rt.ID,
		DepartingTerminalID: d.terminals.WestID,
		VesselPositionNum:   position,
		VesselID:            vesselID,
		VesselName:          fmt.Sprintf("Vessel%d", vesselID),
	})
	return nil
}

func (d *dotstateContext) liveFeedReportsVessel(vesselID int, table *godog.Table) error {
	v := ferry.LiveVessel{VesselID: vesselID, VesselName: fmt.Sprintf("Vessel%d", vesselID), TelemetryTime: d.clock.Now()}

	for _, row := range table.Rows {
		key, val := row.Cells[0].Value, row.Cells[1].Value
		switch key {
		case "departingTerminalId":
			v.DepartingTerminalID, _ = strconv.Atoi(val)
		case "arrivingTerminalId":
			v.ArrivingTerminalID, _ = strconv.Atoi(val)
		case "atDock":
			v.AtDock = val == "true"
		case "leftDock":
			t, err := d.resolveRelativeTime(val)
			if err != nil {
				return err
			}
			v.LeftDock = &t
		case "eta":
			t, err := d.resolveRelativeTime(val)
			if err != nil {
				return err
			}
			v.PredictedArrival = &t
		case "scheduledDeparture":
			t, err := d.resolveRelativeTime(val)
			if err != nil {
				return err
			}
			v.ScheduledDeparture = &t
		default:
			return fmt.Errorf("dotstate steps: unknown telemetry field %q", key)
		}
	}

	d.client.vessels[vesselID] = v
	return nil
}

func (d *dotstateContext) liveFeedNoLongerReportsVessel(vesselID int) error {
	delete(d.client.vessels, vesselID)
	return nil
}

func (d *dotstateContext) terminalSpaceDepartingVessel(terminalID, vesselID int, rawTime string, arrivingTerminalID int, driveUpLabel string, driveUp int, maxSpace int) error {
	depTime, err := d.resolveRelativeTime(rawTime)
	if err != nil {
		return err
	}

	var driveUpPtr *int
	if driveUpLabel == "drive-up space" {
		v := driveUp
		driveUpPtr = &v
	}

	ts, ok := d.client.spaces[terminalID]
	if !ok {
		ts = &upstreamapi.TerminalSpace{TerminalID: terminalID}
		d.client.spaces[terminalID] = ts
	}
	ts.DepartingSpaces = append(ts.DepartingSpaces, upstreamapi.DepartingSpace{
		Departure:  depTime,
		VesselID:   vesselID,
		VesselName: fmt.Sprintf("Vessel%d", vesselID),
		SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
			{ArrivingTerminalID: arrivingTerminalID, DriveUpSpaceCount: driveUpPtr, MaxSpaceCount: maxSpace},
		},
	})
	return nil
}

func (d *dotstateContext) assembleSnapshot() error {
	d.snapshot, d.err = d.asm.BuildSnapshot(context.Background(), d.rt.ID)
	return d.err
}

func (d *dotstateContext) fallbackModeShouldBe(expected string) error {
	if string(d.snapshot.Meta.Fallback) != expected {
		return fmt.Errorf("expected fallback mode %q, got %q", expected, d.snapshot.Meta.Fallback)
	}
	return nil
}

func (d *dotstateContext) reasonShouldBe(expected string) error {
	if d.snapshot.Meta.Reason != expected {
		return fmt.Errorf("expected reason %q, got %q", expected, d.snapshot.Meta.Reason)
	}
	return nil
}

func (d *dotstateContext) laneByName(name string) ferry.Lane {
	if name == "upper" {
		return d.snapshot.Upper
	}
	return d.snapshot.Lower
}

func (d *dotstateContext) laneDirectionShouldBe(name, expected string) error {
	lane := d.laneByName(name)
	if string(lane.Direction) != expected {
		return fmt.Errorf("expected %s lane direction %q, got %q", name, expected, lane.Direction)
	}
	return nil
}

func (d *dotstateContext) lanePhaseShouldBe(name, expected string) error {
	lane := d.laneByName(name)
	if string(lane.Phase) != expected {
		return fmt.Errorf("expected %s lane phase %q, got %q", name, expected, lane.Phase)
	}
	return nil
}

func (d *dotstateContext) laneSourceShouldBe(name, expected string) error {
	lane := d.laneByName(name)
	if string(lane.Source) != expected {
		return fmt.Errorf("expected %s lane source %q, got %q", name, expected, lane.Source)
	}
	return nil
}

func (d *dotstateContext) laneDotPositionApprox(name string, expected float64) error {
	lane := d.laneByName(name)
	if math.Abs(lane.DotPosition-expected) > 0.01 {
		return fmt.Errorf("expected %s lane dot position ~%v, got %v", name, expected, lane.DotPosition)
	}
	return nil
}

func (d *dotstateContext) laneShouldBeAtDock(name string) error {
	lane := d.laneByName(name)
	if !lane.AtDock {
		return fmt.Errorf("expected %s lane to be at dock", name)
	}
	return nil
}

func (d *dotstateContext) laneShouldBeStale(name string) error {
	lane := d.laneByName(name)
	if !lane.IsStale {
		return fmt.Errorf("expected %s lane to be stale", name)
	}
	return nil
}

func (d *dotstateContext) laneDockStartShouldBeSynthetic(name string) error {
	lane := d.laneByName(name)
	if !lane.DockStartIsSynthetic {
		return fmt.Errorf("expected %s lane dock start to be synthetic", name)
	}
	return nil
}

func (d *dotstateContext) laneDockStartShouldNotBeSynthetic(name string) error {
	lane := d.laneByName(name)
	if lane.DockStartIsSynthetic {
		return fmt.Errorf("expected %s lane dock start to not be synthetic", name)
	}
	return nil
}

func (d *dotstateContext) laneDockArcFractionApprox(name string, expected float64) error {
	lane := d.laneByName(name)
	if lane.DockArcFraction == nil {
		return fmt.Errorf("expected %s lane dock arc fraction to be set", name)
	}
	if math.Abs(*lane.DockArcFraction-expected) > 0.02 {
		return fmt.Errorf("expected %s lane dock arc fraction ~%v, got %v", name, expected, *lane.DockArcFraction)
	}
	return nil
}

func (d *dotstateContext) westCapacityVesselShouldBe(vesselID int) error {
	if d.snapshot.WestCapacity == nil || d.snapshot.WestCapacity.VesselID == nil {
		return fmt.Errorf("expected west capacity vessel to be set")
	}
	if *d.snapshot.WestCapacity.VesselID != vesselID {
		return fmt.Errorf("expected west capacity vessel %d, got %d", vesselID, *d.snapshot.WestCapacity.VesselID)
	}
	return nil
}

func (d *dotstateContext) westCapacityShouldBeStale() error {
	if d.snapshot.WestCapacity == nil || !d.snapshot.WestCapacity.IsStale {
		return fmt.Errorf("expected west capacity to be stale")
	}
	return nil
}

func (d *dotstateContext) westCapacityAvailAutoShouldBe(expected int) error {
	if d.snapshot.WestCapacity == nil || d.snapshot.WestCapacity.AvailAuto == nil {
		return fmt.Errorf("expected west capacity avail auto to be set")
	}
	if *d.snapshot.WestCapacity.AvailAuto != expected {
		return fmt.Errorf("expected west capacity avail auto %d, got %d", expected, *d.snapshot.WestCapacity.AvailAuto)
	}
	return nil
}

// InitializeDotstateScenario registers every step used by the dot-state
// assembly feature files.
func InitializeDotstateScenario(sc *godog.ScenarioContext) {
	d := &dotstateContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		d.reset()
		return ctx, nil
	})

	sc.Step(`^a route with west terminal (\d+), east terminal (\d+), and crossing duration (\d+) minutes$`,
		func(west, east, crossing int) error { return d.setupRoute(west, east, crossing) })

	sc.Step(`^the schedule names vessel (\d+) as (upper|lower)$`, d.scheduleNamesVesselAs)
	sc.Step(`^the live feed reports vessel (\d+) with:$`, d.liveFeedReportsVessel)
	sc.Step(`^the live feed no longer reports vessel (\d+)$`, d.liveFeedNoLongerReportsVessel)

	sc.Step(`^the terminal space feed reports terminal (\d+) departing vessel (\d+) at (\S+) arriving terminal (\d+) with no drive-up space and max (\d+)$`,
		func(terminalID, vesselID int, rawTime string, arrivingTerminalID, maxSpace int) error {
			return d.terminalSpaceDepartingVessel(terminalID, vesselID, rawTime, arrivingTerminalID, "no drive-up space", 0, maxSpace)
		})
	sc.Step(`^the terminal space feed reports terminal (\d+) departing vessel (\d+) at (\S+) arriving terminal (\d+) with drive-up space (\d+) and max (\d+)$`,
		func(terminalID, vesselID int, rawTime string, arrivingTerminalID, driveUp, maxSpace int) error {
			return d.terminalSpaceDepartingVessel(terminalID, vesselID, rawTime, arrivingTerminalID, "drive-up space", driveUp, maxSpace)
		})

	sc.Step(`^I assemble the snapshot$`, d.assembleSnapshot)

	sc.Step(`^the fallback mode should be "([^"]*)"$`, d.fallbackModeShouldBe)
	sc.Step(`^the reason should be "([^"]*)"$`, d.reasonShouldBe)

	sc.Step(`^the (upper|lower) lane direction should be "([^"]*)"$`, d.laneDirectionShouldBe)
	sc.Step(`^the (upper|lower) lane phase should be "([^"]*)"$`, d.lanePhaseShouldBe)
	sc.Step(`^the (upper|lower) lane source should be "([^"]*)"$`, d.laneSourceShouldBe)
	sc.Step(`^the (upper|lower) lane dot position should be approximately ([0-9.]+)$`, d.laneDotPositionApprox)
	sc.Step(`^the (upper|lower) lane should be at dock$`, d.laneShouldBeAtDock)
	sc.Step(`^the (upper|lower) lane should be stale$`, d.laneShouldBeStale)
	sc.Step(`^the (upper|lower) lane dock start should be synthetic$`, d.laneDockStartShouldBeSynthetic)
	sc.Step(`^the (upper|lower) lane dock start should not be synthetic$`, d.laneDockStartShouldNotBeSynthetic)
	sc.Step(`^the (upper|lower) lane dock arc fraction should be approximately ([0-9.]+)$`, d.laneDockArcFractionApprox)

	sc.Step(`^west capacity vessel should be (\d+)$`, d.westCapacityVesselShouldBe)
	sc.Step(`^west capacity should be stale$`, d.westCapacityShouldBeStale)
	sc.Step(`^west capacity avail auto should be (\d+)$`, d.westCapacityAvailAutoShouldBe)
}
