package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/McDic/MCDIL/internal/location"
	"github.com/McDic/MCDIL/internal/mcerr"
)

// keywordTokens maps surface keywords that the parser treats structurally to
// dedicated token types. Other reserved words lex as NAME and are rejected
// later at naming points.
var keywordTokens = map[string]string{
	"namespace": "NAMESPACE",
	"import":    "IMPORT",
	"export":    "EXPORT",
	"function":  "FUNCTION",
	"author":    "AUTHOR",
	"raw":       "RAW",
}

// multi-character operators, longest first so maximal munch wins.
var multiOps = []string{
	"==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=",
}

const singleOps = "+-*/%<>=&|^~"

// lexer scans MCDIL source text into tokens with 1-based positions.
type lexer struct {
	source string // unit name for syntax errors
	input  string
	pos    int
	line   int
	column int
}

func newLexer(source, text string) *lexer {
	return &lexer{source: source, input: text, line: 1, column: 1}
}

func (lx *lexer) errorf(format string, args ...any) error {
	loc := location.Location{Source: lx.source, Line: lx.line, Column: lx.column}
	return mcerr.NewSyntax(loc, fmt.Sprintf(format, args...))
}

func (lx *lexer) peek() byte {
	if lx.pos >= len(lx.input) {
		return 0
	}
	return lx.input[lx.pos]
}

func (lx *lexer) advance() byte {
	ch := lx.input[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return ch
}

// tokens scans the whole input. Comments are kept as tokens because a
// leading comment in a scope body is its docstring.
func (lx *lexer) tokens() ([]Token, error) {
	var out []Token
	for lx.pos < len(lx.input) {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.advance()
		case ch == '/' && lx.pos+1 < len(lx.input) && lx.input[lx.pos+1] == '/':
			out = append(out, lx.comment())
		case ch == '"':
			tok, err := lx.stringLiteral()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case ch == '{':
			out = append(out, Token{Type: TokenLBrace, Value: "{", Line: lx.line, Column: lx.column})
			lx.advance()
		case ch == '}':
			out = append(out, Token{Type: TokenRBrace, Value: "}", Line: lx.line, Column: lx.column})
			lx.advance()
		case ch == ';':
			out = append(out, Token{Type: TokenSemi, Value: ";", Line: lx.line, Column: lx.column})
			lx.advance()
		case isNameStart(rune(ch)):
			out = append(out, lx.word())
		case ch >= '0' && ch <= '9':
			out = append(out, lx.number())
		case strings.IndexByte(singleOps, ch) >= 0:
			out = append(out, lx.operator())
		default:
			return nil, lx.errorf("unexpected character %q", ch)
		}
	}
	return out, nil
}

func (lx *lexer) comment() Token {
	line, column := lx.line, lx.column
	lx.advance() // first slash
	lx.advance() // second slash
	start := lx.pos
	for lx.pos < len(lx.input) && lx.peek() != '\n' {
		lx.advance()
	}
	text := strings.TrimSpace(lx.input[start:lx.pos])
	return Token{Type: TokenComment, Value: text, Line: line, Column: column}
}

func (lx *lexer) stringLiteral() (Token, error) {
	line, column := lx.line, lx.column
	lx.advance() // opening quote
	var b strings.Builder
	for {
		if lx.pos >= len(lx.input) {
			return Token{}, lx.errorf("unterminated string literal")
		}
		ch := lx.advance()
		switch ch {
		case '"':
			return Token{Type: TokenString, Value: b.String(), Line: line, Column: column}, nil
		case '\\':
			if lx.pos >= len(lx.input) {
				return Token{}, lx.errorf("unterminated escape sequence")
			}
			esc := lx.advance()
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return Token{}, lx.errorf("unknown escape sequence \\%c", esc)
			}
		case '\n':
			return Token{}, lx.errorf("unterminated string literal")
		default:
			b.WriteByte(ch)
		}
	}
}

func (lx *lexer) word() Token {
	line, column := lx.line, lx.column
	start := lx.pos
	for lx.pos < len(lx.input) && isNamePart(rune(lx.peek())) {
		lx.advance()
	}
	word := lx.input[start:lx.pos]
	if tokenType, ok := keywordTokens[word]; ok {
		return Token{Type: tokenType, Value: word, Line: line, Column: column}
	}
	return Token{Type: TokenName, Value: word, Line: line, Column: column}
}

func (lx *lexer) number() Token {
	line, column := lx.line, lx.column
	start := lx.pos
	for lx.pos < len(lx.input) && lx.peek() >= '0' && lx.peek() <= '9' {
		lx.advance()
	}
	return Token{Type: TokenInt, Value: lx.input[start:lx.pos], Line: line, Column: column}
}

func (lx *lexer) operator() Token {
	line, column := lx.line, lx.column
	rest := lx.input[lx.pos:]
	for _, op := range multiOps {
		if strings.HasPrefix(rest, op) {
			lx.advance()
			lx.advance()
			return Token{Type: TokenOp, Value: op, Line: line, Column: column}
		}
	}
	op := string(lx.advance())
	return Token{Type: TokenOp, Value: op, Line: line, Column: column}
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
