package parse

import "github.com/ava12/kllc/token"

// cursor is the parser's read head over a flat token list. Its methods
// are the combinator primitives spec.md names at the design level
// (`seq`, `alt`, `many`, `opt`, `skip`, `named`): seq is simply calling
// several cursor methods in a row, alt is an if/else dispatch on
// lookahead, many loops a parse step until it no longer applies, opt
// peeks before committing, skip is expect() with its token discarded,
// and named is expect()'s `expected` string, threaded through to the
// error it raises on a miss.
type cursor struct {
	toks []token.Token
	pos  int
	eof  token.Token
}

func newCursor(toks []token.Token, eof token.Token) *cursor {
	return &cursor{toks: toks, eof: eof}
}

func (c *cursor) peek() token.Token {
	if c.pos >= len(c.toks) {
		return c.eof
	}
	return c.toks[c.pos]
}

func (c *cursor) peekAt(off int) token.Token {
	i := c.pos + off
	if i >= len(c.toks) {
		return c.eof
	}
	return c.toks[i]
}

func (c *cursor) atEOF() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) advance() token.Token {
	t := c.peek()
	if c.pos < len(c.toks) {
		c.pos++
	}
	return t
}

// at reports whether the current token has the given kind (`opt`'s
// lookahead primitive).
func (c *cursor) at(kind token.Kind) bool {
	return c.peek().Kind == kind
}

func (c *cursor) atNamespace(ns string) bool {
	t := c.peek()
	return t.Kind == token.NAMESPACED && t.Namespace == ns
}

// expect is `skip` when the caller discards the token, or the leaf
// step of a `seq` when the caller keeps it.
func (c *cursor) expect(kind token.Kind, expected string) (token.Token, error) {
	if c.atEOF() {
		return token.Token{}, unexpectedEOFError(c.eof, expected)
	}
	t := c.peek()
	if t.Kind != kind {
		return token.Token{}, unexpectedTokenError(t, expected)
	}
	return c.advance(), nil
}

