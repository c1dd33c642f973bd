package component

import "github.com/McDic/MCDIL/internal/mcerr"

// FindByPath resolves an identifier path starting from id.
//
// A lookup that stays inside its own scope chain resolves freely: descending
// from the starting component, or from any ancestor reached before the first
// descent, is unrestricted. Once the lookup has climbed an ancestor and then
// descended into a scope, it is reaching into foreign territory, and every
// further segment must resolve through an exported child. Climbing is only
// allowed while no descent has happened yet; a path can never descend and
// then climb back out.
//
// An empty path resolves to id itself.
func (g *Graph) FindByPath(id ID, path []string) (ID, error) {
	return g.find(id, path, path, false, false)
}

// find carries the full path for error reporting alongside the remainder.
// climbed records whether an ancestor was walked; descended records whether
// a child was entered. The export restriction applies only to segments past
// the first descent of a climbed lookup.
func (g *Graph) find(id ID, full, rest []string, climbed, descended bool) (ID, error) {
	if len(rest) == 0 {
		return id, nil
	}
	if child, ok := g.Child(id, rest[0]); ok {
		if !(climbed && descended) || g.Exported(child) {
			return g.find(child, full, rest[1:], climbed, true)
		}
	}
	if parent, ok := g.Parent(id); ok && !descended {
		return g.find(parent, full, rest, true, false)
	}
	return NoParent, mcerr.NewIdentifierNotFound(g.locs, full)
}
