package component

import "github.com/McDic/MCDIL/internal/mcerr"

// authorable reports whether a kind accepts an author. Blocks and
// transactions inherit authorship from enclosing scopes instead.
func authorable(kind Kind) bool {
	return kind == KindNamespace || kind == KindDefinition
}

// SetAuthor assigns the (name, email) pair to id. Assignment is one-shot:
// authorship, once set, is immutable.
func (g *Graph) SetAuthor(id ID, name, email string) error {
	n := &g.nodes[id]
	if !authorable(n.kind) {
		return mcerr.NewNotAuthorable(g.locs)
	}
	if n.author != nil {
		return mcerr.NewAuthorAlreadySet(g.locs, n.author.Name, n.author.Email)
	}
	n.author = &Author{Name: name, Email: email}
	return nil
}

// Author returns the effective author of id: the local author if set,
// otherwise the nearest ancestor's, otherwise none at the root.
//
// With memoize set, an ancestor result is cached on the querying node so
// repeated queries are O(1). Caching is safe because authorship is
// immutable once set anywhere.
func (g *Graph) Author(id ID, memoize bool) (Author, bool) {
	n := &g.nodes[id]
	if n.author != nil {
		return *n.author, true
	}
	if n.authorMemo != nil {
		return *n.authorMemo, true
	}
	parent, ok := g.Parent(id)
	if !ok {
		return Author{}, false
	}
	author, found := g.Author(parent, memoize)
	if found && memoize {
		memo := author
		n.authorMemo = &memo
	}
	return author, found
}

// SetDescription attaches documentation text to id. Settable at most once.
func (g *Graph) SetDescription(id ID, text string) error {
	n := &g.nodes[id]
	if n.desc != nil {
		return mcerr.NewDescriptionAlreadySet(g.locs)
	}
	n.desc = &text
	return nil
}

// Description returns the documentation text of id, if any.
func (g *Graph) Description(id ID) (string, bool) {
	n := g.nodes[id]
	if n.desc == nil {
		return "", false
	}
	return *n.desc, true
}
