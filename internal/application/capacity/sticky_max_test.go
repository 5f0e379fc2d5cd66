package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickyMax_FirstPositiveValueSticks(t *testing.T) {
	s := newStickyMax()

	got := s.Observe(101, 20)
	require.NotNil(t, got)
	assert.Equal(t, 20, *got)

	got = s.Observe(101, 5)
	require.NotNil(t, got)
	assert.Equal(t, 20, *got)
}

func TestStickyMax_ZeroOrNegativeNeverRecorded(t *testing.T) {
	s := newStickyMax()

	got := s.Observe(101, 0)
	assert.Nil(t, got)

	got = s.Observe(101, 20)
	require.NotNil(t, got)
	assert.Equal(t, 20, *got)
}

func TestStickyMax_IndependentPerVessel(t *testing.T) {
	s := newStickyMax()

	s.Observe(101, 20)
	s.Observe(102, 30)

	got101 := s.Observe(101, 1)
	got102 := s.Observe(102, 1)

	require.NotNil(t, got101)
	require.NotNil(t, got102)
	assert.Equal(t, 20, *got101)
	assert.Equal(t, 30, *got102)
}
