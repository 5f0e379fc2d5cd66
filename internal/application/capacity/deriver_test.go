package capacity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/adapters/upstreamapi"
	"github.com/abw750/ferryAPI3/internal/application/capacity"
)

func driveUp(n int) *int { return &n }

func TestDeriver_PrefersScheduledVesselWithFiniteDriveUp(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	deriver := capacity.New(10 * time.Minute)

	spaces := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure:  now.Add(5 * time.Minute),
					VesselID:   101,
					VesselName: "Walla Walla",
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(12), MaxSpaceCount: 20},
					},
				},
			},
		},
	}

	got := deriver.Derive(1, "west", 3, 7, 101, spaces, now)

	require.NotNil(t, got)
	require.NotNil(t, got.VesselID)
	assert.Equal(t, 101, *got.VesselID)
	require.NotNil(t, got.AvailAuto)
	assert.Equal(t, 12, *got.AvailAuto)
	assert.False(t, got.IsStale)
}

func TestDeriver_FallsBackToNextDepartureWhenScheduledVesselHasNoDriveUp(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	deriver := capacity.New(10 * time.Minute)

	spaces := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure:  now.Add(5 * time.Minute),
					VesselID:   101,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: nil, MaxSpaceCount: 20},
					},
				},
				{
					Departure:  now.Add(40 * time.Minute),
					VesselID:   202,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(8), MaxSpaceCount: 20},
					},
				},
			},
		},
	}

	got := deriver.Derive(1, "west", 3, 7, 101, spaces, now)

	require.NotNil(t, got)
	require.NotNil(t, got.VesselID)
	assert.Equal(t, 202, *got.VesselID)
	assert.True(t, got.IsStale)
	require.NotNil(t, got.AvailAuto)
	assert.Equal(t, 8, *got.AvailAuto)
}

func TestDeriver_SkipsDeparturesInThePast(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	deriver := capacity.New(10 * time.Minute)

	spaces := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure: now.Add(-5 * time.Minute),
					VesselID:  101,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(15), MaxSpaceCount: 20},
					},
				},
			},
		},
	}

	got := deriver.Derive(1, "west", 3, 7, 101, spaces, now)
	assert.Nil(t, got)
}

func TestDeriver_FallsBackToLastGoodWhenNoUsableTuple(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	deriver := capacity.New(10 * time.Minute)

	spaces := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure:  now.Add(5 * time.Minute),
					VesselID:   101,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(9), MaxSpaceCount: 20},
					},
				},
			},
		},
	}

	first := deriver.Derive(1, "west", 3, 7, 101, spaces, now)
	require.NotNil(t, first)

	laterNoSpaces := deriver.Derive(1, "west", 3, 7, 101, nil, now.Add(time.Minute))
	require.NotNil(t, laterNoSpaces)
	assert.True(t, laterNoSpaces.IsStale)
	require.NotNil(t, laterNoSpaces.AvailAuto)
	assert.Equal(t, 9, *laterNoSpaces.AvailAuto)
}

func TestDeriver_StickyMaxSurvivesNullLaterObservation(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	deriver := capacity.New(10 * time.Minute)

	first := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure:  now.Add(5 * time.Minute),
					VesselID:   101,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(10), MaxSpaceCount: 20},
					},
				},
			},
		},
	}
	got := deriver.Derive(1, "west", 3, 7, 101, first, now)
	require.NotNil(t, got.MaxAuto)
	assert.Equal(t, 20, *got.MaxAuto)

	second := []upstreamapi.TerminalSpace{
		{
			TerminalID: 3,
			DepartingSpaces: []upstreamapi.DepartingSpace{
				{
					Departure:  now.Add(6 * time.Minute),
					VesselID:   101,
					SpaceForArrivalTerminals: []upstreamapi.SpaceForArrivalTerminal{
						{ArrivingTerminalID: 7, DriveUpSpaceCount: driveUp(3), MaxSpaceCount: 0},
					},
				},
			},
		},
	}
	got = deriver.Derive(1, "west", 3, 7, 101, second, now.Add(time.Second))
	require.NotNil(t, got.MaxAuto)
	assert.Equal(t, 20, *got.MaxAuto)
}
