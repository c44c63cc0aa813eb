// Package token implements the KLL lexical analyzer (spec §4.1).
package token

import "github.com/ava12/kllc/source"

// Kind discriminates the token kinds of spec §4.1.
type Kind int

const (
	EOF Kind = iota
	NUMBER
	STRING
	CHARSTRING
	USTRING
	CODEPOINT
	NAME
	COLON
	COMMA
	SEMI
	PLUS
	EQUALS
	COLON_PLUS
	COLON_MINUS
	COLON_COLON
	BRACKET_OPEN
	BRACKET_CLOSE
	PAREN_OPEN
	PAREN_CLOSE
	NAMESPACED
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case CHARSTRING:
		return "CHARSTRING"
	case USTRING:
		return "USTRING"
	case CODEPOINT:
		return "CODEPOINT"
	case NAME:
		return "NAME"
	case COLON:
		return "COLON"
	case COMMA:
		return "COMMA"
	case SEMI:
		return "SEMI"
	case PLUS:
		return "PLUS"
	case EQUALS:
		return "EQUALS"
	case COLON_PLUS:
		return "COLON_PLUS"
	case COLON_MINUS:
		return "COLON_MINUS"
	case COLON_COLON:
		return "COLON_COLON"
	case BRACKET_OPEN:
		return "BRACKET_OPEN"
	case BRACKET_CLOSE:
		return "BRACKET_CLOSE"
	case PAREN_OPEN:
		return "PAREN_OPEN"
	case PAREN_CLOSE:
		return "PAREN_CLOSE"
	case NAMESPACED:
		return "NAMESPACED"
	default:
		return "?"
	}
}

// Token is one lexeme with its source position, matching the shape of
// the teacher's lexer.Token (ava12-llx/lexer/token.go) generalized
// with a Namespace field for the namespaced-id token kinds KLL needs
// (`U"A"`, `S0x43`, `P[...]`, ...) that the teacher's language has no
// equivalent of.
type Token struct {
	Kind      Kind
	Text      string
	Namespace string
	file      string
	line, col int
}

func (t Token) SourceName() string { return t.file }
func (t Token) Line() int          { return t.line }
func (t Token) Col() int           { return t.col }

// New creates a Token positioned at p within src (src may be nil for
// synthetic tokens such as EOF).
func New(kind Kind, text, namespace string, src *source.File, line, col int) Token {
	name := ""
	if src != nil {
		name = src.Source.Name()
	}
	return Token{Kind: kind, Text: text, Namespace: namespace, file: name, line: line, col: col}
}
