package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntity_NilTracker_Errors(t *testing.T) {
	// GIVEN a nil tracker
	// WHEN an Entity is constructed
	_, err := NewEntity(nil, "root", nil, nil)

	// THEN construction fails
	require.Error(t, err)
}

func TestNewEntity_Child_ComposesDoubleColonFullName(t *testing.T) {
	// GIVEN a root entity
	tr := &discardTracker{}
	root, err := NewEntity(nil, "top", tr, nil)
	require.NoError(t, err)

	// WHEN a child entity is created under it
	child, err := root.Child("worker", nil)
	require.NoError(t, err)

	// THEN the child's full name is the parent's joined with "::"
	require.NoError(t, err)
	assert.Equal(t, "top::worker", child.FullName())
	assert.Equal(t, "worker", child.Name())
	assert.Equal(t, root, child.Parent())
}

func TestComposeAliases_PrefixesWithParentFullName(t *testing.T) {
	// GIVEN a root and a child entity declaring an alias
	tr := &discardTracker{}
	root, err := NewEntity(nil, "top", tr, nil)
	require.NoError(t, err)

	// WHEN a grandchild is created with an alias pointing at a sibling path
	grandchild, err := root.Child("sub", map[string][]string{"tx": {"external_name"}})
	require.NoError(t, err)

	// THEN the entity itself still reports its own plain full name
	assert.Equal(t, "top::sub", grandchild.FullName())
}
