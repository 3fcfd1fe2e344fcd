package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentIndex_MembersOfUnknown(t *testing.T) {
	ix := NewComponentIndex()

	members := ix.MembersOf("A")
	assert.NotNil(t, members)
	assert.Equal(t, 0, members.Len())
	assert.False(t, ix.Known("A"))
}

func TestComponentIndex_RegisterIfAbsent(t *testing.T) {
	ix := NewComponentIndex()

	ix.RegisterIfAbsent("A", NewNodeSet("A", "B"))
	ix.RegisterIfAbsent("A", NewNodeSet("A", "Z"))

	// Second registration is a no-op
	assert.Equal(t, []Node{"A", "B"}, ix.MembersOf("A").Sorted())
	assert.Equal(t, 1, ix.Len())
}

func TestComponentIndex_MergeIntoUnknown(t *testing.T) {
	ix := NewComponentIndex()

	ix.MergeInto("A", NewNodeSet("A", "B"))

	assert.True(t, ix.Known("A"))
	assert.Equal(t, []Node{"A", "B"}, ix.MembersOf("A").Sorted())
}

func TestComponentIndex_MergeIntoKnownUnions(t *testing.T) {
	ix := NewComponentIndex()
	ix.RegisterIfAbsent("A", NewNodeSet("A", "B"))

	ix.MergeInto("A", NewNodeSet("C", "D"))

	assert.Equal(t, []Node{"A", "B", "C", "D"}, ix.MembersOf("A").Sorted())
}

func TestComponentIndex_MembershipOnlyGrows(t *testing.T) {
	ix := NewComponentIndex()
	ix.RegisterIfAbsent("A", NewNodeSet("A", "B", "C"))

	ix.MergeInto("A", NewNodeSet("A"))

	assert.Equal(t, []Node{"A", "B", "C"}, ix.MembersOf("A").Sorted())
}

func TestComponentIndex_MembersOfReturnsCopy(t *testing.T) {
	ix := NewComponentIndex()
	ix.RegisterIfAbsent("A", NewNodeSet("A", "B"))

	snapshot := ix.MembersOf("A")
	snapshot.Add("MUTATED")

	assert.False(t, ix.MembersOf("A").Has("MUTATED"))
}

func TestComponentIndex_RegisterDoesNotAliasInput(t *testing.T) {
	ix := NewComponentIndex()
	shared := NewNodeSet("A", "B")
	ix.RegisterIfAbsent("A", shared)
	ix.RegisterIfAbsent("B", shared)

	ix.MergeInto("A", NewNodeSet("C"))
	shared.Add("Z")

	assert.Equal(t, []Node{"A", "B", "C"}, ix.MembersOf("A").Sorted())
	assert.Equal(t, []Node{"A", "B"}, ix.MembersOf("B").Sorted())
}

func TestComponentIndex_ComponentCount(t *testing.T) {
	ix := NewComponentIndex()
	assert.Equal(t, 0, ix.ComponentCount())

	ab := NewNodeSet("A", "B")
	ix.RegisterIfAbsent("A", ab)
	ix.RegisterIfAbsent("B", ab)
	xyz := NewNodeSet("X", "Y", "Z")
	for _, n := range xyz.Sorted() {
		ix.RegisterIfAbsent(n, xyz)
	}

	assert.Equal(t, 2, ix.ComponentCount())
	assert.Equal(t, []Node{"A", "B", "X", "Y", "Z"}, ix.Nodes())
}
