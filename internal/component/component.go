// Package component models the semantic graph a compilation produces:
// namespaces, definitions, blocks, and transactions, with scope
// registration, identifier lookup, and author/description metadata.
//
// The parent/child object graph is cyclic by nature, so nodes live in an
// arena addressed by stable indices. Each node stores a parent index
// (NoParent for the root) and a list of child indices; "owns" semantics are
// expressed through the arena and mirrored into a dependency graph rather
// than through live aliased references.
package component

import (
	"github.com/google/uuid"

	"github.com/McDic/MCDIL/internal/depgraph"
	"github.com/McDic/MCDIL/internal/location"
	"github.com/McDic/MCDIL/internal/mcerr"
)

// ID addresses a node inside a Graph arena.
type ID int

// NoParent marks a node without an owning parent. Only the synthetic root
// namespace carries it.
const NoParent ID = -1

// Kind is the closed set of component kinds.
type Kind int

const (
	KindNamespace Kind = iota
	KindDefinition
	KindBlock
	KindAtomicBlock
	KindTransaction
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindDefinition:
		return "definition"
	case KindBlock:
		return "block"
	case KindAtomicBlock:
		return "atomic_block"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// DefKind refines KindDefinition.
type DefKind int

const (
	DefVariable DefKind = iota
	DefFunction
	DefStruct
	DefAlias
	DefEnum
)

// String returns the lowercase definition kind name.
func (d DefKind) String() string {
	switch d {
	case DefVariable:
		return "variable"
	case DefFunction:
		return "function"
	case DefStruct:
		return "struct"
	case DefAlias:
		return "alias"
	case DefEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Author is the (name, email) pair attachable to authorable components.
type Author struct {
	Name  string
	Email string
}

// node is the arena envelope shared by every component kind.
type node struct {
	kind     Kind
	defKind  DefKind // meaningful only when kind == KindDefinition
	name     string
	named    bool // anonymous blocks and transactions expose no name
	exported bool

	parent   ID
	children []ID
	byName   map[string]ID // direct children that expose a name

	author     *Author
	authorMemo *Author // cached ancestor author, see Author(memoize)
	desc       *string

	generics []GenericParam // definitions and namespaces; empty = non-generic
	fileID   uuid.UUID      // atomic blocks: identity of the emitted file
	op       Operator       // transactions
	operands []string
}

// Graph is the arena of components for one compilation.
type Graph struct {
	nodes []node
	deps  *depgraph.Graph[ID]
	locs  *location.Stack // optional, used to locate errors
}

// Option configures a Graph.
type Option func(*Graph)

// WithLocations attaches the session's diagnostics stack so every error the
// graph raises captures the innermost location at the moment raised.
func WithLocations(stack *location.Stack) Option {
	return func(g *Graph) { g.locs = stack }
}

// NewGraph creates an empty arena.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{deps: depgraph.New[ID]()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dependencies exposes the ownership graph for ordering passes.
func (g *Graph) Dependencies() *depgraph.Graph[ID] {
	return g.deps
}

// Len returns the number of components in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// create validates the name, appends the node, and registers it under its
// parent. Registration is the single point where same-scope collisions and
// ownership edges are established.
func (g *Graph) create(n node) (ID, error) {
	if n.named && IsKeyword(n.name) {
		return NoParent, mcerr.NewKeywordIdentifier(g.locs, n.name)
	}
	n.byName = make(map[string]ID)
	id := ID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	if n.parent == NoParent {
		return id, nil
	}
	parent := &g.nodes[n.parent]
	if n.named {
		if _, exists := parent.byName[n.name]; exists {
			g.nodes = g.nodes[:len(g.nodes)-1]
			return NoParent, mcerr.NewIdentifierCollision(g.locs, n.name)
		}
		parent.byName[n.name] = id
	}
	parent.children = append(parent.children, id)
	if err := g.deps.AddEdges(n.parent, []ID{id}, true); err != nil {
		return NoParent, err
	}
	return id, nil
}

// NewRoot creates the synthetic root namespace of a compilation unit. It has
// no parent and carries the reserved root name.
func (g *Graph) NewRoot() ID {
	id, err := g.create(node{
		kind:     KindNamespace,
		name:     RootNamespaceName,
		named:    true,
		exported: true,
		parent:   NoParent,
	})
	if err != nil {
		// The reserved root name is never a keyword and a root has no
		// parent to collide under.
		panic(err)
	}
	return id
}

// NewNamespace creates a named namespace under parent. Namespaces are
// non-generic scope containers.
func (g *Graph) NewNamespace(name string, parent ID, exported bool) (ID, error) {
	return g.create(node{
		kind:     KindNamespace,
		name:     name,
		named:    true,
		exported: exported,
		parent:   parent,
	})
}

// NewDefinition creates a named, possibly generic declaration under parent.
func (g *Graph) NewDefinition(name string, kind DefKind, parent ID, exported bool, generics []GenericParam) (ID, error) {
	verified, err := g.verifyGenerics(generics)
	if err != nil {
		return NoParent, err
	}
	return g.create(node{
		kind:     KindDefinition,
		defKind:  kind,
		name:     name,
		named:    true,
		exported: exported,
		parent:   parent,
		generics: verified,
	})
}

// NewBlock creates an anonymous block under parent, such as a loop body.
func (g *Graph) NewBlock(parent ID) (ID, error) {
	return g.create(node{kind: KindBlock, parent: parent})
}

// NewAtomicBlock creates an anonymous atomic block under parent. An atomic
// block maps one-to-one to a single emitted command file, so it carries a
// stable file identity.
func (g *Graph) NewAtomicBlock(parent ID) (ID, error) {
	return g.create(node{kind: KindAtomicBlock, parent: parent, fileID: uuid.New()})
}

// NewTransaction creates a leaf statement under parent.
func (g *Graph) NewTransaction(parent ID, op Operator, operands ...string) (ID, error) {
	return g.create(node{kind: KindTransaction, parent: parent, op: op, operands: operands})
}

// Kind returns the kind of id.
func (g *Graph) Kind(id ID) Kind {
	return g.nodes[id].kind
}

// DefinitionKind returns the refinement of a definition node.
func (g *Graph) DefinitionKind(id ID) DefKind {
	return g.nodes[id].defKind
}

// Name returns the exposed name of id. Anonymous components return false;
// they never collide and are never found by lookup.
func (g *Graph) Name(id ID) (string, bool) {
	n := g.nodes[id]
	return n.name, n.named
}

// Exported reports whether id is reachable by lookups that already descended
// into its scope from outside.
func (g *Graph) Exported(id ID) bool {
	return g.nodes[id].exported
}

// Parent returns the owning parent of id, or false for the root.
func (g *Graph) Parent(id ID) (ID, bool) {
	p := g.nodes[id].parent
	return p, p != NoParent
}

// Children returns the ordered owned children of id. The returned slice is
// shared; callers must not mutate it.
func (g *Graph) Children(id ID) []ID {
	return g.nodes[id].children
}

// Child resolves a direct child of id by exposed name.
func (g *Graph) Child(id ID, name string) (ID, bool) {
	child, ok := g.nodes[id].byName[name]
	return child, ok
}

// FileID returns the emitted-file identity of an atomic block.
func (g *Graph) FileID(id ID) uuid.UUID {
	return g.nodes[id].fileID
}

// Transaction returns the operator and operands of a transaction node.
func (g *Graph) Transaction(id ID) (Operator, []string) {
	n := g.nodes[id]
	return n.op, n.operands
}
