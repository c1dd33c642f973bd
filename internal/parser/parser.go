package parser

import (
	"fmt"
	"strings"

	"github.com/McDic/MCDIL/internal/location"
	"github.com/McDic/MCDIL/internal/mcerr"
)

// Parse turns source text into a parse tree rooted at a "program" node.
// source names the unit in syntax errors.
//
// Grammar (statements end with ";", scopes use braces):
//
//	program    := statement*
//	statement  := COMMENT
//	            | [export] namespace NAME { program }
//	            | import STRING as NAME ;
//	            | [export] function NAME { program }
//	            | author STRING STRING ;
//	            | raw STRING ;
//	            | NAME assign_op operand (bin_op operand)* ;
func Parse(source, text string) (*Tree, error) {
	tokens, err := newLexer(source, text).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, tokens: tokens}
	program, err := p.program(false)
	if err != nil {
		return nil, err
	}
	return program, nil
}

type parser struct {
	source string
	tokens []Token
	pos    int
}

func (p *parser) errorAt(tok Token, format string, args ...any) error {
	loc := location.Location{Source: p.source, Line: tok.Line, Column: tok.Column}
	return mcerr.NewSyntax(loc, fmt.Sprintf(format, args...))
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() Token {
	if p.atEnd() {
		last := Token{}
		if len(p.tokens) > 0 {
			last = p.tokens[len(p.tokens)-1]
		}
		return Token{Type: "EOF", Line: last.Line, Column: last.Column}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *parser) expect(tokenType string) (Token, error) {
	tok := p.peek()
	if tok.Type != tokenType {
		return Token{}, p.errorAt(tok, "expected %s, got %s %q", tokenType, tok.Type, tok.Value)
	}
	return p.next(), nil
}

// program parses statements until EOF, or until a closing brace when nested.
func (p *parser) program(nested bool) (*Tree, error) {
	tree := &Tree{Tag: TagProgram}
	if tok := p.peek(); tok.Type != "EOF" {
		tree.Line, tree.Column = tok.Line, tok.Column
	}
	for {
		tok := p.peek()
		if tok.Type == "EOF" {
			if nested {
				return nil, p.errorAt(tok, "unexpected end of input, missing %q", "}")
			}
			return tree, nil
		}
		if nested && tok.Type == TokenRBrace {
			return tree, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		tree.Children = append(tree.Children, stmt)
	}
}

func (p *parser) statement() (Child, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenComment:
		return p.next(), nil
	case "EXPORT":
		return p.exported()
	case "NAMESPACE":
		return p.namespace(nil)
	case "IMPORT":
		return p.importStatement()
	case "FUNCTION":
		return p.function(nil)
	case "AUTHOR":
		return p.authorStatement()
	case "RAW":
		return p.rawStatement()
	case TokenName:
		return p.assignment()
	default:
		return nil, p.errorAt(tok, "unexpected token %s %q", tok.Type, tok.Value)
	}
}

// exported dispatches an export-qualified compound. The qualifier token is
// spliced in as the first child of the compound's node.
func (p *parser) exported() (Child, error) {
	export := p.next()
	tok := p.peek()
	switch tok.Type {
	case "NAMESPACE":
		return p.namespace(&export)
	case "FUNCTION":
		return p.function(&export)
	default:
		return nil, p.errorAt(tok, "export must qualify a namespace or function, got %s", tok.Type)
	}
}

// namespace := [export] namespace NAME { program }
func (p *parser) namespace(export *Token) (*Tree, error) {
	kw := p.next()
	name, err := p.expect(TokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	body, err := p.program(true)
	if err != nil {
		return nil, err
	}
	body.Tag = TagBody
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	tree := &Tree{Tag: TagNamespace, Line: kw.Line, Column: kw.Column}
	if export != nil {
		tree.Line, tree.Column = export.Line, export.Column
		tree.Children = append(tree.Children, *export)
	}
	tree.Children = append(tree.Children, name, body)
	return tree, nil
}

// importStatement := import STRING as NAME ;
func (p *parser) importStatement() (*Tree, error) {
	kw := p.next()
	path, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	as, err := p.expect(TokenName)
	if err != nil {
		return nil, err
	}
	if as.Value != "as" {
		return nil, p.errorAt(as, "expected %q after import path, got %q", "as", as.Value)
	}
	alias, err := p.expect(TokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemi); err != nil {
		return nil, err
	}
	return &Tree{
		Tag:      TagImport,
		Line:     kw.Line,
		Column:   kw.Column,
		Children: []Child{path, alias},
	}, nil
}

// function := [export] function NAME { program }
func (p *parser) function(export *Token) (*Tree, error) {
	kw := p.next()
	name, err := p.expect(TokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	body, err := p.program(true)
	if err != nil {
		return nil, err
	}
	body.Tag = TagBody
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	tree := &Tree{Tag: TagFunction, Line: kw.Line, Column: kw.Column}
	if export != nil {
		tree.Line, tree.Column = export.Line, export.Column
		tree.Children = append(tree.Children, *export)
	}
	tree.Children = append(tree.Children, name, body)
	return tree, nil
}

// authorStatement := author STRING STRING ;
func (p *parser) authorStatement() (*Tree, error) {
	kw := p.next()
	name, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	email, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemi); err != nil {
		return nil, err
	}
	return &Tree{
		Tag:      TagAuthor,
		Line:     kw.Line,
		Column:   kw.Column,
		Children: []Child{name, email},
	}, nil
}

// rawStatement := raw STRING ;
func (p *parser) rawStatement() (*Tree, error) {
	kw := p.next()
	command, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemi); err != nil {
		return nil, err
	}
	return &Tree{
		Tag:      TagRaw,
		Line:     kw.Line,
		Column:   kw.Column,
		Children: []Child{command},
	}, nil
}

// assignment := NAME assign_op operand (bin_op operand)* ;
//
// Operands and binary operators strictly alternate, starting and ending on
// an operand, so a bare operator never lands in operand position.
func (p *parser) assignment() (*Tree, error) {
	target := p.next()
	op, err := p.expect(TokenOp)
	if err != nil {
		return nil, err
	}
	tree := &Tree{
		Tag:      TagAssignment,
		Line:     target.Line,
		Column:   target.Column,
		Children: []Child{target, op},
	}
	wantOperand := true
	for {
		tok := p.peek()
		switch {
		case wantOperand && (tok.Type == TokenName || tok.Type == TokenInt || tok.Type == TokenString):
			tree.Children = append(tree.Children, p.next())
			wantOperand = false
		case !wantOperand && tok.Type == TokenOp:
			tree.Children = append(tree.Children, p.next())
			wantOperand = true
		case !wantOperand && tok.Type == TokenSemi:
			p.next()
			return tree, nil
		case wantOperand:
			return nil, p.errorAt(tok, "expected operand, got %s %q", tok.Type, tok.Value)
		default:
			return nil, p.errorAt(tok, "unexpected token %s %q in assignment", tok.Type, tok.Value)
		}
	}
}

// Pretty renders the tree with two-space indentation, one node or token per
// line, for the parse CLI command and debugging.
func Pretty(tree *Tree) string {
	var b strings.Builder
	prettyTree(&b, tree, 0)
	return b.String()
}

func prettyTree(b *strings.Builder, tree *Tree, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(tree.Tag)
	b.WriteString("\n")
	for _, child := range tree.Children {
		switch c := child.(type) {
		case *Tree:
			prettyTree(b, c, depth+1)
		case Token:
			b.WriteString(strings.Repeat("  ", depth+1))
			fmt.Fprintf(b, "%s %q\n", c.Type, c.Value)
		}
	}
}
