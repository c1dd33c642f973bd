package component

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dumpFixture builds a small but representative graph.
func dumpFixture(t *testing.T) (*Graph, ID) {
	t.Helper()
	g := NewGraph()
	root := g.NewRoot()

	pack, err := g.NewNamespace("pack", root, true)
	require.NoError(t, err)
	require.NoError(t, g.SetDescription(pack, "The main pack."))
	require.NoError(t, g.SetAuthor(pack, "McDic", "mcdic@example.com"))

	greet, err := g.NewDefinition("greet", DefFunction, pack, true, nil)
	require.NoError(t, err)
	block, err := g.NewAtomicBlock(greet)
	require.NoError(t, err)
	_, err = g.NewTransaction(block, OpRaw, "say hello")
	require.NoError(t, err)
	_, err = g.NewTransaction(block, OpAssignAdd, "score", "1")
	require.NoError(t, err)

	_, err = g.NewDefinition("stack", DefStruct, pack, false, []GenericParam{
		{Name: "TN", Kind: GenericTypename},
		{Name: "SIZE", Kind: GenericInt},
	})
	require.NoError(t, err)

	_, err = g.NewNamespace("sibling", root, false)
	require.NoError(t, err)
	return g, root
}

// TestDump_Golden pins the text rendering against a golden file.
func TestDump_Golden(t *testing.T) {
	g, root := dumpFixture(t)
	gold := goldie.New(t)
	gold.Assert(t, "component_dump", []byte(g.Dump(root)))
}

// TestDump_Deterministic tests that repeated dumps agree byte for byte.
func TestDump_Deterministic(t *testing.T) {
	g, root := dumpFixture(t)
	first := g.Dump(root)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.Dump(root))
	}
}

// TestSnapshot_StructuralEquality tests that two independently built
// identical graphs snapshot equal, while file identities stay excluded.
func TestSnapshot_StructuralEquality(t *testing.T) {
	g1, root1 := dumpFixture(t)
	g2, root2 := dumpFixture(t)

	if diff := cmp.Diff(g1.Snapshot(root1), g2.Snapshot(root2)); diff != "" {
		t.Fatalf("snapshots differ (-first +second):\n%s", diff)
	}
}

// TestSnapshot_Fields spot-checks the exported view.
func TestSnapshot_Fields(t *testing.T) {
	g, root := dumpFixture(t)
	snap := g.Snapshot(root)

	assert.Equal(t, "namespace", snap.Kind)
	assert.Equal(t, RootNamespaceName, snap.Name)
	require.Len(t, snap.Children, 2)

	pack := snap.Children[0]
	assert.Equal(t, "pack", pack.Name)
	assert.True(t, pack.Exported)
	assert.Equal(t, "The main pack.", pack.Description)
	require.NotNil(t, pack.Author)
	assert.Equal(t, "McDic", pack.Author.Name)

	greet := pack.Children[0]
	assert.Equal(t, "function", greet.DefKind)
	require.Len(t, greet.Children, 1)
	block := greet.Children[0]
	assert.Equal(t, "atomic_block", block.Kind)
	require.Len(t, block.Children, 2)
	assert.Equal(t, "raw", block.Children[0].Operator)
	assert.Equal(t, []string{"say hello"}, block.Children[0].Operands)

	stack := pack.Children[1]
	assert.Equal(t, []string{"TN: typename", "SIZE: int"}, stack.Generics)
}
