package osmreader

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) orb.Point { return orb.Point{x, y} }

func TestAssembleRingsSingleClosedWay(t *testing.T) {
	seg := segment{pt(0, 0), pt(0, 1), pt(1, 1), pt(1, 0), pt(0, 0)}
	closed, leftover := assembleRings([]segment{seg})

	require.Len(t, closed, 1)
	assert.Empty(t, leftover)
	assert.True(t, ringClosed(closed[0]))
}

func TestAssembleRingsTwoSegmentsJoinForward(t *testing.T) {
	a := segment{pt(0, 0), pt(0, 1)}
	b := segment{pt(0, 1), pt(1, 1), pt(1, 0), pt(0, 0)}

	closed, leftover := assembleRings([]segment{a, b})
	require.Len(t, closed, 1)
	assert.Empty(t, leftover)
	assert.Equal(t, 5, len(closed[0]))
}

func TestAssembleRingsReversedSegment(t *testing.T) {
	a := segment{pt(0, 0), pt(0, 1)}
	// b is the same edge as a continuation but stored reversed.
	b := segment{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}

	closed, leftover := assembleRings([]segment{a, b})
	require.Len(t, closed, 1)
	assert.Empty(t, leftover)
}

func TestAssembleRingsUnclosableLeftover(t *testing.T) {
	a := segment{pt(0, 0), pt(0, 1)}
	b := segment{pt(5, 5), pt(6, 6)}

	closed, leftover := assembleRings([]segment{a, b})
	assert.Empty(t, closed)
	assert.Len(t, leftover, 2)
}

func TestAssembleRingsMultipleIndependentRings(t *testing.T) {
	ring1 := segment{pt(0, 0), pt(0, 1), pt(1, 1), pt(1, 0), pt(0, 0)}
	ring2 := segment{pt(10, 10), pt(10, 11), pt(11, 11), pt(11, 10), pt(10, 10)}

	closed, leftover := assembleRings([]segment{ring1, ring2})
	assert.Len(t, closed, 2)
	assert.Empty(t, leftover)
}
