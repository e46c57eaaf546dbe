package trace

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphcore-research/gwr/sim"
)

func TestNullTracker_AllocID_IsMonotonic(t *testing.T) {
	// GIVEN a fresh NullTracker
	nt := NewNullTracker()

	// WHEN AllocID is called three times
	a := nt.AllocID()
	b := nt.AllocID()
	c := nt.AllocID()

	// THEN each call returns a distinct, increasing Id
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestNullTracker_IsEnabled_AlwaysFalse(t *testing.T) {
	// GIVEN a NullTracker
	nt := NewNullTracker()

	// WHEN IsEnabled is queried at any level
	enabled := nt.IsEnabled(sim.Id(1), sim.LogError)

	// THEN it always reports disabled
	assert.False(t, enabled)
}

func TestNewFilter_InvalidPattern_Errors(t *testing.T) {
	// GIVEN an override list with an unparseable regex
	overrides := []PatternLevel{{Pattern: "(unterminated", Level: sim.LogDebug}}

	// WHEN building a Filter from it
	_, err := NewFilter(sim.LogInfo, overrides, 0)

	// THEN construction fails
	require.Error(t, err)
}

func TestNewFilter_FirstMatchWins(t *testing.T) {
	// GIVEN two overrides that would both match the same entity name
	overrides := []PatternLevel{
		{Pattern: "^top::worker", Level: sim.LogDebug},
		{Pattern: "worker", Level: sim.LogTrace},
	}
	filter, err := NewFilter(sim.LogInfo, overrides, 0)
	require.NoError(t, err)

	// WHEN resolving an entity matching both patterns
	level := filter.Resolve(sim.Id(1), "top::worker::0")

	// THEN the first override in the list wins
	assert.Equal(t, sim.LogDebug, level)
}

func TestLogrusTracker_AddEntity_DuplicateId_Errors(t *testing.T) {
	// GIVEN a LogrusTracker with one entity already registered
	lt := NewLogrusTracker(logrus.New(), nil)
	require.NoError(t, lt.AddEntity(sim.Id(1), "top", nil))

	// WHEN the same Id is registered again
	err := lt.AddEntity(sim.Id(1), "top::dup", nil)

	// THEN it fails
	require.Error(t, err)
}

func TestLogrusTracker_IsEnabled_RespectsFilter(t *testing.T) {
	// GIVEN a LogrusTracker filtering everything below Warn by default
	filter, err := NewFilter(sim.LogWarn, nil, 0)
	require.NoError(t, err)
	lt := NewLogrusTracker(logrus.New(), filter)
	require.NoError(t, lt.AddEntity(sim.Id(1), "top", nil))

	// WHEN checking Info and Error for that entity
	infoEnabled := lt.IsEnabled(sim.Id(1), sim.LogInfo)
	errorEnabled := lt.IsEnabled(sim.Id(1), sim.LogError)

	// THEN only the level at or below the default threshold is enabled
	assert.False(t, infoEnabled)
	assert.True(t, errorEnabled)
}

// spyTracker counts how many times each method fires, for verifying
// MultiTracker's fan-out.
type spyTracker struct {
	NullTracker
	shutdowns int
}

func (s *spyTracker) Shutdown() error {
	s.shutdowns++
	return nil
}

func TestMultiTracker_AllocID_OnlyFirstMemberAllocates(t *testing.T) {
	// GIVEN a MultiTracker over two independent NullTrackers
	a := NewNullTracker()
	b := NewNullTracker()
	mt := NewMultiTracker(a, b)

	// WHEN AllocID is called through the MultiTracker
	id := mt.AllocID()

	// THEN the returned Id is the first member's, and both stay in sync
	assert.Equal(t, sim.Id(1), id)
	assert.Equal(t, a.alloc, b.alloc)
}

func TestMultiTracker_Shutdown_FansOutToAllMembers(t *testing.T) {
	// GIVEN a MultiTracker over two spy members
	a := &spyTracker{}
	b := &spyTracker{}
	mt := NewMultiTracker(a, b)

	// WHEN Shutdown is called
	err := mt.Shutdown()

	// THEN both members observed exactly one Shutdown call
	require.NoError(t, err)
	assert.Equal(t, 1, a.shutdowns)
	assert.Equal(t, 1, b.shutdowns)
}
