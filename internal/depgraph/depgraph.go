// Package depgraph provides the directed dependency graph used to order and
// connect compiled components.
//
// Each node has zero or more inner edges and an optional outer edge. Inner
// edges record parent -> child ordering and feed topological sorting. The
// outer edge records the unique owning parent of a child and exists purely
// for reverse lookups such as identifier propagation.
package depgraph

import (
	"fmt"

	"github.com/McDic/MCDIL/internal/mcerr"
)

// Graph is a directed graph over any comparable key type, typically a
// component identity. The zero value is not usable; call New.
type Graph[K comparable] struct {
	inner map[K]map[K]struct{}
	outer map[K]K

	// insertion order of nodes, used to keep Toposort deterministic
	order []K
	seen  map[K]struct{}
}

// New creates an empty graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		inner: make(map[K]map[K]struct{}),
		outer: make(map[K]K),
		seen:  make(map[K]struct{}),
	}
}

func (g *Graph[K]) note(key K) {
	if _, ok := g.seen[key]; ok {
		return
	}
	g.seen[key] = struct{}{}
	g.order = append(g.order, key)
}

// AddEdges records edges from parent to each child.
//
// When mainLink is set, each child additionally gets parent as its owning
// parent; a child that already has an owner fails with a graph error.
// Re-inserting an existing inner edge is an error, never silently idempotent.
func (g *Graph[K]) AddEdges(parent K, children []K, mainLink bool) error {
	g.note(parent)
	if g.inner[parent] == nil {
		g.inner[parent] = make(map[K]struct{})
	}
	for _, child := range children {
		if mainLink {
			if owner, ok := g.outer[child]; ok {
				return mcerr.NewGraphError(mcerr.CodeOwnerConflict,
					fmt.Sprintf("child %v already has parent %v", child, owner))
			}
			g.outer[child] = parent
		}
		if _, ok := g.inner[parent][child]; ok {
			return mcerr.NewGraphError(mcerr.CodeDuplicateEdge,
				fmt.Sprintf("child %v is already dependent on parent %v", child, parent))
		}
		g.inner[parent][child] = struct{}{}
		g.note(child)
	}
	return nil
}

// Owner returns the owning parent of child recorded via a main link.
func (g *Graph[K]) Owner(child K) (K, bool) {
	owner, ok := g.outer[child]
	return owner, ok
}

// HasEdge reports whether an inner edge parent -> child exists.
func (g *Graph[K]) HasEdge(parent, child K) bool {
	_, ok := g.inner[parent][child]
	return ok
}

// Len returns the number of known nodes.
func (g *Graph[K]) Len() int {
	return len(g.order)
}

// Toposort orders all known nodes so that every parent precedes its inner
// children (Kahn's algorithm). Only inner edges participate. Nodes of equal
// rank keep insertion order, so the result is deterministic. A cycle fails
// with a graph error naming one of its members.
func (g *Graph[K]) Toposort() ([]K, error) {
	indegree := make(map[K]int, len(g.order))
	for _, node := range g.order {
		indegree[node] = 0
	}
	for _, children := range g.inner {
		for child := range children {
			indegree[child]++
		}
	}

	var queue []K
	for _, node := range g.order {
		if indegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	sorted := make([]K, 0, len(g.order))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		// Scan insertion order rather than the edge set to keep ties stable.
		for _, child := range g.order {
			if _, ok := g.inner[node][child]; !ok {
				continue
			}
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(sorted) != len(g.order) {
		for _, node := range g.order {
			if indegree[node] > 0 {
				return nil, mcerr.NewGraphError(mcerr.CodeDependencyLoop,
					fmt.Sprintf("dependency cycle detected through %v", node))
			}
		}
	}
	return sorted, nil
}
