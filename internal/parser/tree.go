// Package parser turns MCDIL source text into the parse tree the compiler
// driver walks.
//
// The tree shape is deliberately plain: a node exposes a string tag, an
// ordered list of children (each either a nested tree or a token), and
// optional position metadata. The driver depends only on that shape, so the
// parser stays a swappable collaborator.
package parser

// Child is either a *Tree or a Token.
type Child interface {
	// Pos returns the (line, column) metadata, or ok=false when absent.
	Pos() (line, column int, ok bool)
}

// Token is a terminal of the grammar.
type Token struct {
	Type   string // e.g. "NAME", "STRING", "COMMENT", "EXPORT"
	Value  string
	Line   int // 1-based; 0 means no metadata
	Column int
}

// Pos implements Child.
func (t Token) Pos() (int, int, bool) {
	if t.Line == 0 {
		return 0, 0, false
	}
	return t.Line, t.Column, true
}

// Tree is a nonterminal of the grammar.
type Tree struct {
	Tag      string
	Children []Child
	Line     int // position of the construct's first token; 0 = no metadata
	Column   int
}

// Pos implements Child.
func (t *Tree) Pos() (int, int, bool) {
	if t.Line == 0 {
		return 0, 0, false
	}
	return t.Line, t.Column, true
}

// Node tags produced by this parser.
const (
	TagProgram    = "program"
	TagNamespace  = "namespace"
	TagBody       = "body"
	TagImport     = "import"
	TagFunction   = "function"
	TagAuthor     = "author"
	TagAssignment = "assignment"
	TagRaw        = "raw"
)

// Token types produced by the lexer. Keywords lex to their own type
// (uppercase of the keyword).
const (
	TokenName    = "NAME"
	TokenInt     = "INT"
	TokenString  = "STRING"
	TokenComment = "COMMENT"
	TokenOp      = "OP"
	TokenLBrace  = "LBRACE"
	TokenRBrace  = "RBRACE"
	TokenSemi    = "SEMI"
)
