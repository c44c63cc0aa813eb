// Package parse turns a token stream into the ast.Expression list a
// context organizes, following the PEG design of spec §4.2.
package parse

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/source"
	"github.com/ava12/kllc/token"
)

type parser struct {
	c          *cursor
	file       *source.File
	role       source.Role
	partialIdx int
	loadOrder  int
}

// Parse converts file's token stream into expressions tagged with
// role, per spec §4.2's contract: fails with a *kllc.Error at the
// earliest unreducible position, never partially.
func Parse(file *source.File, toks []token.Token, role source.Role, partialIdx int) ([]ast.Expression, error) {
	eofLine, eofCol := file.Source.LineCol(file.Source.Len())
	eof := token.New(token.EOF, "", "", file, eofLine, eofCol)
	p := &parser{c: newCursor(toks, eof), file: file, role: role, partialIdx: partialIdx}

	var exprs []ast.Expression
	for !p.c.atEOF() {
		expr, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if _, err := p.c.expect(token.SEMI, "';'"); err != nil {
			return nil, err
		}
		p.loadOrder++
	}
	return exprs, nil
}

func (p *parser) meta(line, col int) ast.Meta {
	return ast.Meta{
		File:         p.file.Source.Name(),
		Line:         line,
		Col:          col,
		Role:         p.role,
		PartialIndex: p.partialIdx,
		LoadOrder:    p.loadOrder,
	}
}

// parseStatement dispatches on a bounded lookahead over the statement
// kinds of spec §3 (`statement := assignment | mapping | dataAssoc |
// capDecl`, generalized here to also cover the animation/name/define
// declarations spec §3 lists as expression variants). The surface
// forms that disambiguate each kind are a parser design decision not
// fixed by spec.md's design-level grammar sketch; see DESIGN.md.
func (p *parser) parseStatement() (ast.Expression, error) {
	t := p.c.peek()

	if t.Kind == token.NAME {
		switch t.Text {
		case "capability":
			if p.c.peekAt(1).Kind == token.NAME {
				return p.parseCapabilityDecl()
			}
		case "define":
			if p.c.peekAt(1).Kind == token.NAME {
				return p.parseDefine()
			}
		case "symbol":
			if p.c.peekAt(1).Kind == token.NAME {
				return p.parseNameAssociation()
			}
		}
		return p.parseAssignment()
	}

	if t.Kind == token.STRING || t.Kind == token.CHARSTRING {
		return p.parseDataCharacterAssignment()
	}

	if t.Kind == token.NAMESPACED && t.Namespace == "A" {
		return p.parseAnimationStatement()
	}

	return p.parseMappingOrDataAssoc()
}
