package ferry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/domain/ferry"
)

func TestLane_CloneDoesNotAliasPointers(t *testing.T) {
	vesselID := 101
	eta := time.Now()
	original := ferry.Lane{VesselID: &vesselID, ETA: &eta}

	clone := original.Clone()
	*clone.VesselID = 999
	*clone.ETA = eta.Add(time.Hour)

	assert.Equal(t, 101, *original.VesselID)
	assert.Equal(t, eta, *original.ETA)
}

func TestLane_CloneHandlesNilPointers(t *testing.T) {
	original := ferry.Lane{Slot: ferry.SlotUpper}
	clone := original.Clone()

	assert.Nil(t, clone.VesselID)
	assert.Nil(t, clone.ETA)
	assert.Equal(t, ferry.SlotUpper, clone.Slot)
}

func TestCapacity_CloneDoesNotAliasPointers(t *testing.T) {
	avail := 10
	original := ferry.Capacity{AvailAuto: &avail}

	clone := original.Clone()
	*clone.AvailAuto = 0

	require.NotNil(t, original.AvailAuto)
	assert.Equal(t, 10, *original.AvailAuto)
}
