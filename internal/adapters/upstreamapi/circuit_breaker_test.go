package upstreamapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := newCircuitBreaker(2, time.Minute, clock)

	failing := func() error { return errors.New("boom") }

	require.Error(t, cb.call(failing))
	assert.Equal(t, circuitClosed, cb.State())

	require.Error(t, cb.call(failing))
	assert.Equal(t, circuitOpen, cb.State())
}

func TestCircuitBreaker_RejectsWhileOpen(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := newCircuitBreaker(1, time.Minute, clock)

	require.Error(t, cb.call(func() error { return errors.New("boom") }))
	require.Equal(t, circuitOpen, cb.State())

	err := cb.call(func() error { return nil })
	assert.ErrorIs(t, err, errCircuitOpen)
}

func TestCircuitBreaker_HalfOpensAfterTimeoutAndCloses(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := newCircuitBreaker(1, time.Minute, clock)

	require.Error(t, cb.call(func() error { return errors.New("boom") }))
	require.Equal(t, circuitOpen, cb.State())

	clock.Advance(2 * time.Minute)

	require.NoError(t, cb.call(func() error { return nil }))
	assert.Equal(t, circuitClosed, cb.State())
}

func TestCircuitBreaker_FailureDuringHalfOpenReopens(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := newCircuitBreaker(1, time.Minute, clock)

	require.Error(t, cb.call(func() error { return errors.New("boom") }))
	clock.Advance(2 * time.Minute)

	require.Error(t, cb.call(func() error { return errors.New("still failing") }))
	assert.Equal(t, circuitOpen, cb.State())
}
