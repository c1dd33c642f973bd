package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McDic/MCDIL/internal/mcerr"
)

// TestSetAuthor_NotAuthorable tests that blocks and transactions reject
// authorship.
func TestSetAuthor_NotAuthorable(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()
	def, err := g.NewDefinition("f", DefFunction, root, false, nil)
	require.NoError(t, err)
	block, err := g.NewAtomicBlock(def)
	require.NoError(t, err)
	tx, err := g.NewTransaction(block, OpAssign, "x", "1")
	require.NoError(t, err)

	for _, id := range []ID{block, tx} {
		err := g.SetAuthor(id, "McDic", "mcdic@example.com")
		require.Error(t, err)
		var notAuthorable *mcerr.NotAuthorableError
		assert.ErrorAs(t, err, &notAuthorable)
	}
}

// TestSetAuthor_OnceOnly tests that authorship is one-shot.
func TestSetAuthor_OnceOnly(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()
	ns, err := g.NewNamespace("pack", root, true)
	require.NoError(t, err)

	require.NoError(t, g.SetAuthor(ns, "McDic", "mcdic@example.com"))

	err = g.SetAuthor(ns, "Other", "other@example.com")
	require.Error(t, err)
	var already *mcerr.AuthorAlreadySetError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "McDic", already.Name)
	assert.Equal(t, "mcdic@example.com", already.Email)

	author, ok := g.Author(ns, false)
	require.True(t, ok)
	assert.Equal(t, "McDic", author.Name, "failed overwrite must not change the author")
}

// TestAuthor_AncestorFallback tests upward resolution with a graceful none
// at the root.
func TestAuthor_AncestorFallback(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()
	ns, err := g.NewNamespace("pack", root, true)
	require.NoError(t, err)
	def, err := g.NewDefinition("f", DefFunction, ns, false, nil)
	require.NoError(t, err)

	_, found := g.Author(def, false)
	assert.False(t, found, "no author anywhere yet")

	require.NoError(t, g.SetAuthor(ns, "McDic", "mcdic@example.com"))

	author, found := g.Author(def, false)
	require.True(t, found)
	assert.Equal(t, "McDic", author.Name)

	_, found = g.Author(root, false)
	assert.False(t, found, "root stays authorless")
}

// TestAuthor_Memoize tests that a memoized ancestor result is cached on the
// querying node.
func TestAuthor_Memoize(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()
	ns, err := g.NewNamespace("pack", root, true)
	require.NoError(t, err)
	def, err := g.NewDefinition("f", DefFunction, ns, false, nil)
	require.NoError(t, err)
	require.NoError(t, g.SetAuthor(root, "McDic", "mcdic@example.com"))

	author, found := g.Author(def, true)
	require.True(t, found)
	assert.Equal(t, "McDic", author.Name)

	// The intermediate namespace also resolved through the walk and may
	// serve repeated queries locally now.
	assert.NotNil(t, g.nodes[def].authorMemo)
	assert.NotNil(t, g.nodes[ns].authorMemo)

	again, found := g.Author(def, true)
	require.True(t, found)
	assert.Equal(t, author, again)
}

// TestSetDescription_OnceOnly tests docstring single assignment.
func TestSetDescription_OnceOnly(t *testing.T) {
	g := NewGraph()
	root := g.NewRoot()

	_, ok := g.Description(root)
	assert.False(t, ok)

	require.NoError(t, g.SetDescription(root, "The main pack."))

	err := g.SetDescription(root, "Another docstring.")
	require.Error(t, err)
	var already *mcerr.DescriptionAlreadySetError
	assert.ErrorAs(t, err, &already)

	desc, ok := g.Description(root)
	require.True(t, ok)
	assert.Equal(t, "The main pack.", desc)
}
