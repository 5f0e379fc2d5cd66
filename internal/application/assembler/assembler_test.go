package assembler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/application/assembler"
	"github.com/abw750/ferryAPI3/internal/domain/ferry"
	"github.com/abw750/ferryAPI3/internal/domain/route"
	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

type stubClient struct {
	vessels     []ferry.LiveVessel
	vesselsErr  error
	spaces      []upstreamapi.TerminalSpace
	spacesErr   error
	schedule    []upstreamapi.ScheduleRow
	scheduleErr error
}

func (s *stubClient) FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error) {
	return s.vessels, s.vesselsErr
}

func (s *stubClient) FetchTerminalSpaces(ctx context.Context) ([]upstreamapi.TerminalSpace, error) {
	return s.spaces, s.spacesErr
}

func (s *stubClient) FetchSchedule(ctx context.Context, routeID int, dateText string) ([]upstreamapi.ScheduleRow, error) {
	return s.schedule, s.scheduleErr
}

func newTestCatalogAndResolver() (*route.Catalog, *route.TerminalResolver) {
	catalog := route.NewCatalog([]route.Route{
		{ID: 1, Description: "Test", WestTerminal: "West", EastTerminal: "East", CrossingMinutes: 35},
	})
	resolver := route.NewTerminalResolver(map[string]int{"West": 3, "East": 7})
	return catalog, resolver
}

func TestBuildSnapshot_HappyPathBothLanesLive(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	now := clock.Now()

	leftUpper := now.Add(-10 * time.Minute)
	etaUpper := now.Add(25 * time.Minute)
	leftLower := now.Add(-5 * time.Minute)
	etaLower := now.Add(30 * time.Minute)

	client := &stubClient{
		schedule: []upstreamapi.ScheduleRow{
			{DepartingTerminalID: 3, VesselPositionNum: 1, VesselID: 101, VesselName: "Walla Walla"},
			{DepartingTerminalID: 3, VesselPositionNum: 2, VesselID: 102, VesselName: "Tacoma"},
		},
		vessels: []ferry.LiveVessel{
			{VesselID: 101, DepartingTerminalID: 3, ArrivingTerminalID: 7, LeftDock: &leftUpper, PredictedArrival: &etaUpper},
			{VesselID: 102, DepartingTerminalID: 7, ArrivingTerminalID: 3, LeftDock: &leftLower, PredictedArrival: &etaLower},
		},
	}

	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, ferry.FallbackLive, snap.Meta.Fallback)
	assert.Equal(t, ferry.DirectionWestToEast, snap.Upper.Direction)
	assert.Equal(t, ferry.DirectionEastToWest, snap.Lower.Direction)
	assert.Equal(t, ferry.SourceLive, snap.Upper.Source)
	assert.Equal(t, ferry.SourceLive, snap.Lower.Source)
	assert.NotEmpty(t, snap.Meta.CorrelationID)
}

func TestBuildSnapshot_UnknownRouteErrors(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Now())
	asm := assembler.New(catalog, resolver, &stubClient{}, clock, 10*time.Minute, nil)

	_, err := asm.BuildSnapshot(context.Background(), 999)
	require.Error(t, err)
}

func TestBuildSnapshot_ScheduleErrorYieldsSyntheticFallback(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Now())
	client := &stubClient{scheduleErr: assertAnError{}}
	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ferry.FallbackSynthetic, snap.Meta.Fallback)
}

func TestBuildSnapshot_VesselFeedErrorMarksPartialFallback(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Now())
	client := &stubClient{
		schedule: []upstreamapi.ScheduleRow{
			{DepartingTerminalID: 3, VesselPositionNum: 1, VesselID: 101, VesselName: "Walla Walla"},
		},
		vesselsErr: assertAnError{},
	}
	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ferry.FallbackPartial, snap.Meta.Fallback)
	assert.True(t, snap.Meta.VesselsStale)
}

func TestBuildSnapshot_CapacityStaleFalseWhenBothSidesResolveFresh(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	now := clock.Now()

	driveUpWest := 8
	driveUpEast := 6
	client := &stubClient{
		schedule: []upstreamapi.ScheduleRow{
			{DepartingTerminalID: 3, VesselPositionNum: 1, VesselID: 101, VesselName: "Walla Walla"},
			{DepartingTerminalID: 3, VesselPositionNum: 2, VesselID: 102, VesselName: "Tacoma"},
		},
		spaces: []upstreamapi.TerminalSpace{
			{
				TerminalID: 3,
				DepartingSpaces: []upstreamapi.DepartingSpace{
					{
						Departure:  now.Add(10 * time.Minute),
						VesselID:   101,
						VesselName: "Walla Walla",
						SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
							{ArrivingTerminalID: 7, DriveUpSpaceCount: &driveUpWest, MaxSpaceCount: 20},
						},
					},
				},
			},
			{
				TerminalID: 7,
				DepartingSpaces: []upstreamapi.DepartingSpace{
					{
						Departure:  now.Add(15 * time.Minute),
						VesselID:   102,
						VesselName: "Tacoma",
						SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
							{ArrivingTerminalID: 3, DriveUpSpaceCount: &driveUpEast, MaxSpaceCount: 20},
						},
					},
				},
			},
		},
	}

	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, snap.WestCapacity)
	require.NotNil(t, snap.EastCapacity)
	assert.False(t, snap.WestCapacity.IsStale)
	assert.False(t, snap.EastCapacity.IsStale)
	assert.False(t, snap.Meta.CapacityStale)
}

func TestBuildSnapshot_CapacityStaleTrueWhenTerminalSpaceFeedErrors(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Now())
	client := &stubClient{
		schedule: []upstreamapi.ScheduleRow{
			{DepartingTerminalID: 3, VesselPositionNum: 1, VesselID: 101, VesselName: "Walla Walla"},
		},
		spacesErr: assertAnError{},
	}
	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snap.Meta.CapacityStale)
	assert.Nil(t, snap.WestCapacity)
	assert.Nil(t, snap.EastCapacity)
}

func TestBuildSnapshot_SyntheticSnapshotMarksCapacityStale(t *testing.T) {
	catalog, resolver := newTestCatalogAndResolver()
	clock := shared.NewMockClock(time.Now())
	client := &stubClient{scheduleErr: assertAnError{}}
	asm := assembler.New(catalog, resolver, client, clock, 10*time.Minute, nil)

	snap, err := asm.BuildSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, snap.Meta.CapacityStale)
}

type assertAnError struct{}

func (assertAnError) Error() string { return "boom" }
