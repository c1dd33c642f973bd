package component

import (
	"fmt"
	"strings"
)

// Snapshot is an exported, reference-free view of a component subtree, used
// for structural comparison and JSON output. File identities are excluded
// because they are freshly generated each compilation.
type Snapshot struct {
	Kind        string     `json:"kind"`
	DefKind     string     `json:"def_kind,omitempty"`
	Name        string     `json:"name,omitempty"`
	Exported    bool       `json:"exported,omitempty"`
	Description string     `json:"description,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Operator    string     `json:"operator,omitempty"`
	Operands    []string   `json:"operands,omitempty"`
	Generics    []string   `json:"generics,omitempty"`
	Children    []Snapshot `json:"children,omitempty"`
}

// Snapshot builds the view rooted at id.
func (g *Graph) Snapshot(id ID) Snapshot {
	n := g.nodes[id]
	snap := Snapshot{
		Kind:     n.kind.String(),
		Exported: n.exported,
	}
	if n.kind == KindDefinition {
		snap.DefKind = n.defKind.String()
	}
	if n.named {
		snap.Name = n.name
	}
	if n.desc != nil {
		snap.Description = *n.desc
	}
	if n.author != nil {
		author := *n.author
		snap.Author = &author
	}
	if n.kind == KindTransaction {
		snap.Operator = string(n.op)
		snap.Operands = n.operands
	}
	for _, param := range n.generics {
		snap.Generics = append(snap.Generics, fmt.Sprintf("%s: %s", param.Name, param.Kind))
	}
	for _, child := range n.children {
		snap.Children = append(snap.Children, g.Snapshot(child))
	}
	return snap
}

// Dump renders the subtree rooted at id as indented text, one component per
// line. The rendering is deterministic: children appear in registration
// order. Suitable for CLI output and golden tests.
func (g *Graph) Dump(id ID) string {
	var b strings.Builder
	g.dump(&b, id, 0)
	return b.String()
}

func (g *Graph) dump(b *strings.Builder, id ID, depth int) {
	n := g.nodes[id]
	b.WriteString(strings.Repeat("  ", depth))
	label := n.kind.String()
	if n.kind == KindDefinition {
		label = n.defKind.String()
	}
	b.WriteString(label)
	if n.named {
		fmt.Fprintf(b, " %s", n.name)
	}
	if n.exported && n.parent != NoParent {
		b.WriteString(" [export]")
	}
	if len(n.generics) > 0 {
		names := make([]string, len(n.generics))
		for i, param := range n.generics {
			names[i] = param.Name
		}
		fmt.Fprintf(b, " <%s>", strings.Join(names, ", "))
	}
	if n.kind == KindTransaction {
		fmt.Fprintf(b, " %s %s", n.op, strings.Join(n.operands, " "))
	}
	b.WriteString("\n")
	for _, child := range n.children {
		g.dump(b, child, depth+1)
	}
}
