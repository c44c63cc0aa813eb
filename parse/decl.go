package parse

import (
	"strconv"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/token"
)

// parseAssignment parses `name = value;`, `name[i] = value;`, or
// `name[] = v1, v2, …;` (spec §3 Assignment sub-kinds scalar,
// array-element, array-whole).
func (p *parser) parseAssignment() (ast.Expression, error) {
	name := p.c.advance()
	m := p.meta(name.Line(), name.Col())

	subKind := ast.AssignScalar
	var index *int
	if p.c.at(token.BRACKET_OPEN) {
		p.c.advance()
		if p.c.at(token.NUMBER) {
			idxTok := p.c.advance()
			n, err := strconv.Atoi(idxTok.Text)
			if err != nil {
				return nil, badNumberError(idxTok)
			}
			index = &n
			subKind = ast.AssignArrayElement
		} else {
			subKind = ast.AssignArrayWhole
		}
		if _, err := p.c.expect(token.BRACKET_CLOSE, "']'"); err != nil {
			return nil, err
		}
	}

	if _, err := p.c.expect(token.EQUALS, "'='"); err != nil {
		return nil, err
	}

	values, err := p.parseValueList()
	if err != nil {
		return nil, err
	}

	return ast.Assignment{M: m, SubKind: subKind, Name: name.Text, Index: index, Values: values}, nil
}

// parseDataCharacterAssignment parses `"A" = U"A";`: a character or
// raw-string literal bound directly to a value, the data-association
// sub-kind of Assignment spec §3 mentions without giving it a surface
// form of its own.
func (p *parser) parseDataCharacterAssignment() (ast.Expression, error) {
	lit := p.c.advance()
	m := p.meta(lit.Line(), lit.Col())
	if _, err := p.c.expect(token.EQUALS, "'='"); err != nil {
		return nil, err
	}
	values, err := p.parseValueList()
	if err != nil {
		return nil, err
	}
	return ast.Assignment{M: m, SubKind: ast.AssignDataCharacter, Name: lit.Text, Values: values}, nil
}

func (p *parser) parseValueList() ([]ast.Value, error) {
	var values []ast.Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.c.at(token.COMMA) {
			comma := p.c.advance()
			if p.c.at(token.SEMI) {
				return nil, trailingCommaError(comma)
			}
			continue
		}
		break
	}
	return values, nil
}

func (p *parser) parseValue() (ast.Value, error) {
	t := p.c.peek()
	switch t.Kind {
	case token.STRING, token.CHARSTRING, token.USTRING:
		p.c.advance()
		return ast.Value{Kind: ast.ValueString, Str: t.Text}, nil
	case token.NUMBER:
		p.c.advance()
		dur, isTiming, err := parseNumberLiteral(t)
		if err != nil {
			return ast.Value{}, err
		}
		if isTiming {
			return ast.Value{Kind: ast.ValueNumber, Num: ast.Number{IsTiming: true, Timing: dur}}, nil
		}
		n, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return ast.Value{}, badNumberError(t)
		}
		return ast.Value{Kind: ast.ValueNumber, Num: ast.Number{Value: n}}, nil
	default:
		el, err := p.parseElement()
		if err != nil {
			return ast.Value{}, err
		}
		if el.Id == nil {
			return ast.Value{}, unexpectedTokenError(t, "a value")
		}
		return ast.Value{Kind: ast.ValueId, Id: el.Id}, nil
	}
}

// capArgTypeNames are the keywords a capability declaration's argument
// list uses to declare each parameter's type.
var capArgTypeNames = map[string]ast.CapArgType{
	"int":    ast.CapArgTypeInt,
	"string": ast.CapArgTypeString,
	"id":     ast.CapArgTypeId,
}

// parseCapabilityDecl parses `capability Name = CSymbol(int, string, id);`.
func (p *parser) parseCapabilityDecl() (ast.Expression, error) {
	kw := p.c.advance() // "capability"
	m := p.meta(kw.Line(), kw.Col())
	name, err := p.c.expect(token.NAME, "a capability name")
	if err != nil {
		return nil, err
	}
	if _, err := p.c.expect(token.EQUALS, "'='"); err != nil {
		return nil, err
	}
	symbol, err := p.c.expect(token.NAME, "a C symbol name")
	if err != nil {
		return nil, err
	}
	var argTypes []ast.CapArgType
	if p.c.at(token.PAREN_OPEN) {
		p.c.advance()
		for !p.c.at(token.PAREN_CLOSE) {
			tn, err := p.c.expect(token.NAME, "an argument type (int, string, or id)")
			if err != nil {
				return nil, err
			}
			at, ok := capArgTypeNames[tn.Text]
			if !ok {
				return nil, unexpectedTokenError(tn, "an argument type (int, string, or id)")
			}
			argTypes = append(argTypes, at)
			if p.c.at(token.COMMA) {
				p.c.advance()
				continue
			}
			break
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return nil, err
		}
	}
	return ast.Capability{M: m, Name: name.Text, Symbol: symbol.Text, ArgTypes: argTypes}, nil
}

// parseDefine parses `define Name = CSymbol;`.
func (p *parser) parseDefine() (ast.Expression, error) {
	kw := p.c.advance()
	m := p.meta(kw.Line(), kw.Col())
	name, err := p.c.expect(token.NAME, "a define name")
	if err != nil {
		return nil, err
	}
	if _, err := p.c.expect(token.EQUALS, "'='"); err != nil {
		return nil, err
	}
	symbol, err := p.c.expect(token.NAME, "a C symbol name")
	if err != nil {
		return nil, err
	}
	return ast.Define{M: m, Name: name.Text, Symbol: symbol.Text}, nil
}

// parseNameAssociation parses `symbol Name = CSymbol;`.
func (p *parser) parseNameAssociation() (ast.Expression, error) {
	kw := p.c.advance()
	m := p.meta(kw.Line(), kw.Col())
	name, err := p.c.expect(token.NAME, "a symbolic name")
	if err != nil {
		return nil, err
	}
	if _, err := p.c.expect(token.EQUALS, "'='"); err != nil {
		return nil, err
	}
	symbol, err := p.c.expect(token.NAME, "a C symbol name")
	if err != nil {
		return nil, err
	}
	return ast.NameAssociation{M: m, Name: name.Text, Symbol: symbol.Text}, nil
}
