package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abw750/ferryAPI3/internal/domain/shared"
)

func TestMockClock_SleepAdvancesInstantly(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)

	before := time.Now()
	clock.Sleep(time.Hour)
	elapsedWallClock := time.Since(before)

	assert.Less(t, elapsedWallClock, 100*time.Millisecond)
	assert.Equal(t, start.Add(time.Hour), clock.Now())
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)

	clock.Advance(30 * time.Minute)

	assert.Equal(t, start.Add(30*time.Minute), clock.Now())
}

func TestMockClock_SetTime(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	target := time.Date(2030, 6, 15, 8, 0, 0, 0, time.UTC)

	clock.SetTime(target)

	assert.Equal(t, target, clock.Now())
}

func TestRealClock_NowIsUTC(t *testing.T) {
	clock := shared.NewRealClock()
	assert.Equal(t, time.UTC, clock.Now().Location())
}
