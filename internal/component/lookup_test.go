package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McDic/MCDIL/internal/mcerr"
)

// lookupFixture builds:
//
//	root
//	├── a (exported namespace)
//	│   ├── b (non-exported definition)
//	│   └── c (exported definition)
//	└── sibling (namespace)
func lookupFixture(t *testing.T) (*Graph, map[string]ID) {
	t.Helper()
	g := NewGraph()
	ids := map[string]ID{}
	ids["root"] = g.NewRoot()

	var err error
	ids["a"], err = g.NewNamespace("a", ids["root"], true)
	require.NoError(t, err)
	ids["b"], err = g.NewDefinition("b", DefVariable, ids["a"], false, nil)
	require.NoError(t, err)
	ids["c"], err = g.NewDefinition("c", DefVariable, ids["a"], true, nil)
	require.NoError(t, err)
	ids["sibling"], err = g.NewNamespace("sibling", ids["root"], false)
	require.NoError(t, err)
	return g, ids
}

// TestFindByPath_EmptyPathIsSelf tests that the empty path resolves to the
// starting component for every kind of node.
func TestFindByPath_EmptyPathIsSelf(t *testing.T) {
	g, ids := lookupFixture(t)
	for name, id := range ids {
		got, err := g.FindByPath(id, nil)
		require.NoError(t, err, name)
		assert.Equal(t, id, got, name)
	}
}

// TestFindByPath_OwnSubtreeUnrestricted tests that a lookup that never
// climbs resolves freely downward: it starts inside its own scope chain, so
// non-exported descendants stay visible.
func TestFindByPath_OwnSubtreeUnrestricted(t *testing.T) {
	g, ids := lookupFixture(t)

	got, err := g.FindByPath(ids["root"], []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, ids["b"], got,
		"a.b from root never climbs, so the non-exported b resolves")
	assert.False(t, g.Exported(got))

	got, err = g.FindByPath(ids["a"], []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, ids["b"], got)
}

// TestFindByPath_ExportedOnlyAfterClimb tests that the same path fails from
// a sibling scope: a lookup that climbed an ancestor and descended is an
// external caller, and non-exported children are invisible to it.
func TestFindByPath_ExportedOnlyAfterClimb(t *testing.T) {
	g, ids := lookupFixture(t)

	// From the sibling scope, "a.b" climbs to root, descends into a, and
	// then must not see the non-exported b.
	_, err := g.FindByPath(ids["sibling"], []string{"a", "b"})
	require.Error(t, err)
	var notFound *mcerr.IdentifierNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"a", "b"}, notFound.Path)

	// The exported c stays reachable on the same route.
	got, err := g.FindByPath(ids["sibling"], []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, ids["c"], got)
}

// TestFindByPath_UpwardSearchBeforeDescent tests that a lookup climbs
// ancestors freely while still at the outer stage.
func TestFindByPath_UpwardSearchBeforeDescent(t *testing.T) {
	g, ids := lookupFixture(t)

	// From deep inside a, "sibling" resolves by climbing to root first.
	got, err := g.FindByPath(ids["b"], []string{"sibling"})
	require.NoError(t, err)
	assert.Equal(t, ids["sibling"], got)

	// Single-segment lookup of a direct child works from the scope itself.
	got, err = g.FindByPath(ids["a"], []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, ids["b"], got)
}

// TestFindByPath_NoUpwardAfterDescent tests that upward propagation stops
// after the first descent: a path cannot descend and then climb.
func TestFindByPath_NoUpwardAfterDescent(t *testing.T) {
	g, ids := lookupFixture(t)

	// "a.sibling" would need to descend into a and climb back out.
	_, err := g.FindByPath(ids["root"], []string{"a", "sibling"})
	require.Error(t, err)
	assert.Equal(t, mcerr.CodeIdentifierNotFound, mcerr.CodeOf(err))
}

// TestFindByPath_MissingRootSegment tests the plain not-found case.
func TestFindByPath_MissingRootSegment(t *testing.T) {
	g, ids := lookupFixture(t)

	_, err := g.FindByPath(ids["sibling"], []string{"nonexistent"})
	require.Error(t, err)
	var notFound *mcerr.IdentifierNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"nonexistent"}, notFound.Path)
}

// TestFindByPath_AnonymousChildrenInvisible tests that anonymous blocks are
// never found by name lookups.
func TestFindByPath_AnonymousChildrenInvisible(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()
	def, err := g.NewDefinition("f", DefFunction, root, true, nil)
	require.NoError(t, err)
	_, err = g.NewAtomicBlock(def)
	require.NoError(t, err)

	_, err = g.FindByPath(root, []string{"f", ""})
	assert.Error(t, err, "anonymous children expose no identifier")
}
