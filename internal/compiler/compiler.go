// Package compiler walks MCDIL parse trees and builds the semantic
// component graph.
//
// The driver is a recursive-descent walker with one handler per node tag.
// Every handler pushes a diagnostics location when the node carries position
// metadata, validates the tag against what the current scope accepts, builds
// components, and releases the location on every exit path. Semantic errors
// are never caught and suppressed inside handlers; they propagate unchanged
// to Compile, the only boundary that reports to the end user.
package compiler

import (
	"fmt"
	"path/filepath"

	"github.com/McDic/MCDIL/internal/cache"
	"github.com/McDic/MCDIL/internal/component"
	"github.com/McDic/MCDIL/internal/location"
	"github.com/McDic/MCDIL/internal/mcerr"
	"github.com/McDic/MCDIL/internal/parser"
	"github.com/McDic/MCDIL/internal/reader"
)

// ReadFunc acquires source text for a reference resolved against a base,
// returning the text and the canonical path it resolved to.
type ReadFunc func(reference, base string) (text, canonical string, err error)

// ParseFunc turns source text into a parse tree.
type ParseFunc func(source, text string) (*parser.Tree, error)

// Compiler drives one compilation session. It owns the session's
// diagnostics location stack and component arena; the source cache may be
// shared across sessions when its entries are guaranteed unchanged.
type Compiler struct {
	locs  *location.Stack
	graph *component.Graph
	codes *cache.Codes
	read  ReadFunc
	parse ParseFunc

	// canonical paths currently being walked, to fail import cycles
	active map[string]struct{}
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCodes shares a pre-seeded source cache, e.g. one loaded from the
// persistent store.
func WithCodes(codes *cache.Codes) Option {
	return func(c *Compiler) { c.codes = codes }
}

// WithReadFunc replaces the source-acquisition collaborator.
func WithReadFunc(read ReadFunc) Option {
	return func(c *Compiler) { c.read = read }
}

// WithParseFunc replaces the parser collaborator.
func WithParseFunc(parse ParseFunc) Option {
	return func(c *Compiler) { c.parse = parse }
}

// New creates a compiler with the default file/network reader and the
// built-in parser.
func New(opts ...Option) *Compiler {
	locs := &location.Stack{}
	c := &Compiler{
		locs:   locs,
		graph:  component.NewGraph(component.WithLocations(locs)),
		codes:  cache.NewCodes(),
		read:   (&reader.Reader{}).Read,
		parse:  parser.Parse,
		active: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the component arena the session builds into.
func (c *Compiler) Graph() *component.Graph {
	return c.graph
}

// Codes returns the session's source cache.
func (c *Compiler) Codes() *cache.Codes {
	return c.codes
}

// Compile is the entry point of one independent compilation. When source is
// empty the text is acquired through the reader; a non-empty source is used
// as-is and cached under the canonicalized path. It returns the root
// namespace of the compilation unit.
func (c *Compiler) Compile(path, source string) (component.ID, error) {
	// Independent top-level run: never leak diagnostics context from an
	// unrelated earlier compilation.
	c.locs.Clear()

	canonical, text, err := c.acquire(path, "", source)
	if err != nil {
		return component.NoParent, err
	}
	tree, err := c.parse(canonical, text)
	if err != nil {
		return component.NoParent, err
	}
	if tree.Tag != parser.TagProgram {
		return component.NoParent, mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}

	root := c.graph.NewRoot()
	c.active[canonical] = struct{}{}
	defer delete(c.active, canonical)
	if err := c.namespaceBody(tree, canonical, root); err != nil {
		return component.NoParent, err
	}
	return root, nil
}

// acquire resolves a reference to (canonical, text) and records it in the
// shared cache. A cached path re-read with different text fails fatally.
func (c *Compiler) acquire(reference, base, source string) (string, string, error) {
	if source != "" {
		canonical := canonicalize(reference)
		if err := c.codes.Put(canonical, source); err != nil {
			return "", "", err
		}
		return canonical, source, nil
	}

	// Reuse cached text when the canonical path is predictable without I/O,
	// so repeated imports of one unit fetch it once.
	if candidate, ok := resolveCanonical(reference, base); ok {
		if cached, hit := c.codes.Get(candidate); hit {
			return candidate, cached, nil
		}
	}

	text, canonical, err := c.read(reference, base)
	if err != nil {
		return "", "", err
	}
	if cached, ok := c.codes.Get(canonical); ok {
		if cached != text {
			return "", "", mcerr.NewCacheMismatch(canonical)
		}
		return canonical, cached, nil
	}
	if err := c.codes.Put(canonical, text); err != nil {
		return "", "", err
	}
	return canonical, text, nil
}

// resolveCanonical predicts the canonical path of a reference without
// performing I/O. URL bases are left to the reader.
func resolveCanonical(reference, base string) (string, bool) {
	if reader.IsURL(reference) {
		return reference, true
	}
	if reader.IsURL(base) {
		return "", false
	}
	path := reference
	if base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(base), path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}

// canonicalize maps a reference to its cache key without touching the
// filesystem: URLs stay as-is, file paths become absolute and cleaned.
func canonicalize(reference string) string {
	if reader.IsURL(reference) {
		return reference
	}
	abs, err := filepath.Abs(reference)
	if err != nil {
		return filepath.Clean(reference)
	}
	return abs
}

// enter pushes a diagnostics location for node when it carries position
// metadata. The returned release must run on every exit path; callers defer
// it immediately.
func (c *Compiler) enter(node parser.Child, src string) func() {
	line, column, ok := node.Pos()
	if !ok {
		return func() {}
	}
	return c.locs.Push(location.Location{Source: src, Line: line, Column: column})
}

// expectTag validates a handler's input tag.
func (c *Compiler) expectTag(tree *parser.Tree, tags ...string) error {
	for _, tag := range tags {
		if tree.Tag == tag {
			return nil
		}
	}
	return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
}

// namespaceBody walks the statements of a namespace scope. A leading
// comment token is the scope's docstring; nested namespaces, imports,
// functions, and author statements are accepted; transactions are not valid
// directly under a namespace.
func (c *Compiler) namespaceBody(tree *parser.Tree, src string, scope component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagProgram, parser.TagBody); err != nil {
		return err
	}

	for index, child := range tree.Children {
		switch node := child.(type) {
		case parser.Token:
			if node.Type == parser.TokenComment {
				if index == 0 {
					if err := c.docstring(node, src, scope); err != nil {
						return err
					}
				}
				continue
			}
			return mcerr.NewUnexpectedNode(c.locs, node.Type)
		case *parser.Tree:
			var err error
			switch node.Tag {
			case parser.TagNamespace:
				err = c.handleNamespace(node, src, scope)
			case parser.TagImport:
				err = c.handleImport(node, src, scope)
			case parser.TagFunction:
				err = c.handleFunction(node, src, scope)
			case parser.TagAuthor:
				err = c.handleAuthor(node, src, scope)
			default:
				err = mcerr.NewUnexpectedNode(c.locs, node.Tag)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// docstring attaches a leading comment to its scope.
func (c *Compiler) docstring(tok parser.Token, src string, scope component.ID) error {
	defer c.enter(tok, src)()
	return c.graph.SetDescription(scope, tok.Value)
}

// splitQualified separates an optional leading export token from the NAME
// token and body of a namespace or function node.
func splitQualified(tree *parser.Tree) (exported bool, name parser.Token, body *parser.Tree, err error) {
	children := tree.Children
	if len(children) > 0 {
		if tok, ok := children[0].(parser.Token); ok && tok.Type == "EXPORT" {
			exported = true
			children = children[1:]
		}
	}
	if len(children) != 2 {
		return false, parser.Token{}, nil, fmt.Errorf("malformed %s node with %d children", tree.Tag, len(children))
	}
	nameTok, ok := children[0].(parser.Token)
	if !ok || nameTok.Type != parser.TokenName {
		return false, parser.Token{}, nil, fmt.Errorf("malformed %s node: missing name token", tree.Tag)
	}
	bodyTree, ok := children[1].(*parser.Tree)
	if !ok {
		return false, parser.Token{}, nil, fmt.Errorf("malformed %s node: missing body", tree.Tag)
	}
	return exported, nameTok, bodyTree, nil
}

// handleNamespace builds a child namespace and recurses into its body.
func (c *Compiler) handleNamespace(tree *parser.Tree, src string, scope component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagNamespace); err != nil {
		return err
	}
	exported, name, body, err := splitQualified(tree)
	if err != nil {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	ns, err := c.graph.NewNamespace(name.Value, scope, exported)
	if err != nil {
		return err
	}
	return c.namespaceBody(body, src, ns)
}

// handleFunction builds a function definition whose body is a single atomic
// block of transactions, the unit that maps to one emitted command file.
func (c *Compiler) handleFunction(tree *parser.Tree, src string, scope component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagFunction); err != nil {
		return err
	}
	exported, name, body, err := splitQualified(tree)
	if err != nil {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	def, err := c.graph.NewDefinition(name.Value, component.DefFunction, scope, exported, nil)
	if err != nil {
		return err
	}
	block, err := c.graph.NewAtomicBlock(def)
	if err != nil {
		return err
	}
	return c.blockBody(body, src, block)
}

// blockBody walks the statements of an atomic block. Only transactions and
// comments are valid; scope-introducing constructs are not.
func (c *Compiler) blockBody(tree *parser.Tree, src string, block component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagBody); err != nil {
		return err
	}
	for index, child := range tree.Children {
		switch node := child.(type) {
		case parser.Token:
			if node.Type == parser.TokenComment {
				if index == 0 {
					if err := c.docstring(node, src, block); err != nil {
						return err
					}
				}
				continue
			}
			return mcerr.NewUnexpectedNode(c.locs, node.Type)
		case *parser.Tree:
			var err error
			switch node.Tag {
			case parser.TagAssignment:
				err = c.handleAssignment(node, src, block)
			case parser.TagRaw:
				err = c.handleRaw(node, src, block)
			default:
				err = mcerr.NewUnexpectedNode(c.locs, node.Tag)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// handleAssignment builds a transaction for an assignment statement. The
// target must resolve in the enclosing scope chain.
func (c *Compiler) handleAssignment(tree *parser.Tree, src string, block component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagAssignment); err != nil {
		return err
	}
	if len(tree.Children) < 3 {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	target, ok := tree.Children[0].(parser.Token)
	if !ok || target.Type != parser.TokenName {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	opTok, ok := tree.Children[1].(parser.Token)
	if !ok || opTok.Type != parser.TokenOp {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	op := component.Operator(opTok.Value)
	if !component.IsAssignOperator(op) {
		return mcerr.NewUnexpectedNode(c.locs, opTok.Value)
	}

	operands := []string{target.Value}
	for _, child := range tree.Children[2:] {
		tok, ok := child.(parser.Token)
		if !ok {
			return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
		}
		operands = append(operands, tok.Value)
	}
	_, err := c.graph.NewTransaction(block, op, operands...)
	return err
}

// handleRaw builds a transaction carrying a verbatim Minecraft command.
func (c *Compiler) handleRaw(tree *parser.Tree, src string, block component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagRaw); err != nil {
		return err
	}
	if len(tree.Children) != 1 {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	command, ok := tree.Children[0].(parser.Token)
	if !ok || command.Type != parser.TokenString {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	_, err := c.graph.NewTransaction(block, component.OpRaw, command.Value)
	return err
}

// handleAuthor assigns author metadata to the current scope.
func (c *Compiler) handleAuthor(tree *parser.Tree, src string, scope component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagAuthor); err != nil {
		return err
	}
	if len(tree.Children) != 2 {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	name, okName := tree.Children[0].(parser.Token)
	email, okEmail := tree.Children[1].(parser.Token)
	if !okName || !okEmail {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	return c.graph.SetAuthor(scope, name.Value, email.Value)
}

// handleImport compiles another source unit and splices its contents in as
// a named child namespace of the current scope. The import pipeline shares
// the session cache, so re-importing a file reuses its text, and a file
// whose text changed mid-session fails fatally.
func (c *Compiler) handleImport(tree *parser.Tree, src string, scope component.ID) error {
	defer c.enter(tree, src)()
	if err := c.expectTag(tree, parser.TagImport); err != nil {
		return err
	}
	if len(tree.Children) != 2 {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}
	pathTok, okPath := tree.Children[0].(parser.Token)
	aliasTok, okAlias := tree.Children[1].(parser.Token)
	if !okPath || !okAlias {
		return mcerr.NewUnexpectedNode(c.locs, tree.Tag)
	}

	canonical, text, err := c.acquire(pathTok.Value, src, "")
	if err != nil {
		return err
	}
	if _, importing := c.active[canonical]; importing {
		return mcerr.NewGraphError(mcerr.CodeDependencyLoop,
			fmt.Sprintf("import cycle detected through %q", canonical))
	}

	imported, err := c.parse(canonical, text)
	if err != nil {
		return err
	}
	if imported.Tag != parser.TagProgram {
		return mcerr.NewUnexpectedNode(c.locs, imported.Tag)
	}

	ns, err := c.graph.NewNamespace(aliasTok.Value, scope, false)
	if err != nil {
		return err
	}
	c.active[canonical] = struct{}{}
	defer delete(c.active, canonical)
	return c.namespaceBody(imported, canonical, ns)
}
