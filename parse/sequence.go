package parse

import (
	"strconv"
	"strings"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/token"
)

// parseCombo parses `idExpr ('+' idExpr)*` (spec §4.2).
func (p *parser) parseCombo() (ast.Combo, error) {
	el, err := p.parseElement()
	if err != nil {
		return ast.Combo{}, err
	}
	combo := ast.Combo{Elements: []ast.Element{el}}
	for p.c.at(token.PLUS) {
		p.c.advance()
		el, err := p.parseElement()
		if err != nil {
			return ast.Combo{}, err
		}
		combo.Elements = append(combo.Elements, el)
	}
	return combo, nil
}

// parseSequence parses `combo (',' combo)*`, rejecting a trailing
// comma (spec §4.2 ambiguity policy).
func (p *parser) parseSequence() (ast.Sequence, error) {
	combo, err := p.parseCombo()
	if err != nil {
		return ast.Sequence{}, err
	}
	seq := ast.Sequence{Combos: []ast.Combo{combo}}
	for p.c.at(token.COMMA) {
		comma := p.c.advance()
		if p.atSequenceEnd() {
			return ast.Sequence{}, trailingCommaError(comma)
		}
		combo, err := p.parseCombo()
		if err != nil {
			return ast.Sequence{}, err
		}
		seq.Combos = append(seq.Combos, combo)
	}
	return seq, nil
}

// atSequenceEnd reports whether the cursor sits where a sequence must
// end (a mapOp, '=', or ';'), used to reject a trailing comma.
func (p *parser) atSequenceEnd() bool {
	switch p.c.peek().Kind {
	case token.SEMI, token.COLON, token.COLON_PLUS, token.COLON_MINUS, token.COLON_COLON, token.EQUALS:
		return true
	default:
		return false
	}
}

// parseMapOp parses the mapOp production, including the `i:` family
// (an "i" NAME immediately followed by a colon-family operator).
func (p *parser) parseMapOp() (ast.MapOp, token.Token, error) {
	if p.c.at(token.NAME) && p.c.peek().Text == "i" {
		tok := p.c.advance()
		switch p.c.peek().Kind {
		case token.COLON:
			p.c.advance()
			return ast.OpIndicatorMapsTo, tok, nil
		case token.COLON_PLUS:
			p.c.advance()
			return ast.OpIndicatorAddTo, tok, nil
		case token.COLON_MINUS:
			p.c.advance()
			return ast.OpIndicatorRemoveFrom, tok, nil
		case token.COLON_COLON:
			p.c.advance()
			return ast.OpIndicatorIsolate, tok, nil
		default:
			return 0, tok, unexpectedTokenError(p.c.peek(), "a mapping operator")
		}
	}

	t := p.c.peek()
	switch t.Kind {
	case token.COLON:
		p.c.advance()
		return ast.OpMapsTo, t, nil
	case token.COLON_PLUS:
		p.c.advance()
		return ast.OpAddTo, t, nil
	case token.COLON_MINUS:
		p.c.advance()
		return ast.OpRemoveFrom, t, nil
	case token.COLON_COLON:
		p.c.advance()
		return ast.OpIsolate, t, nil
	case token.EQUALS:
		p.c.advance()
		return ast.OpReplace, t, nil
	default:
		return 0, t, unexpectedTokenError(t, "a mapping operator")
	}
}

// parseMappingOrDataAssoc parses `triggerSeq mapOp resultSeq;` or, when
// the operator is `=` and the left-hand sequence is a single pixel or
// scan code id immediately followed by axis-settings, a position
// DataAssociation instead (spec §3 gives DataAssociation no surface
// form of its own; this disambiguation is a parser design decision,
// see DESIGN.md).
func (p *parser) parseMappingOrDataAssoc() (ast.Expression, error) {
	startTok := p.c.peek()
	trigger, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	op, _, err := p.parseMapOp()
	if err != nil {
		return nil, err
	}

	if op == ast.OpReplace && isSinglePositionTarget(trigger) && p.looksLikeAxisSettings() {
		return p.parseDataAssociation(trigger, startTok)
	}

	result, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	return ast.Mapping{M: p.meta(startTok.Line(), startTok.Col()), Op: op, Trigger: trigger, Result: result}, nil
}

func isSinglePositionTarget(seq ast.Sequence) bool {
	if len(seq.Combos) != 1 || len(seq.Combos[0].Elements) != 1 {
		return false
	}
	el := seq.Combos[0].Elements[0]
	if el.Id == nil {
		return false
	}
	switch el.Id.IdKind() {
	case ast.KindScanCode, ast.KindPixel:
		return true
	default:
		return false
	}
}

func (p *parser) looksLikeAxisSettings() bool {
	t := p.c.peek()
	if t.Kind != token.NAME {
		return false
	}
	switch strings.ToLower(t.Text) {
	case "x", "y", "z", "rx", "ry", "rz":
		return p.c.peekAt(1).Kind == token.COLON
	default:
		return false
	}
}

func (p *parser) parseDataAssociation(trigger ast.Sequence, startTok token.Token) (ast.Expression, error) {
	el := trigger.Combos[0].Elements[0]
	pos, err := p.parsePositionSettings()
	if err != nil {
		return nil, err
	}
	m := p.meta(startTok.Line(), startTok.Col())
	switch id := el.Id.(type) {
	case ast.PixelId:
		return ast.DataAssociation{M: m, Target: ast.TargetPixel, PixelIndex: id.Index, Position: pos}, nil
	case ast.ScanCodeId:
		return ast.DataAssociation{M: m, Target: ast.TargetScanCode, ScanCode: id.Code, Position: pos}, nil
	default:
		return nil, unexpectedTokenError(startTok, "a pixel or scan code position target")
	}
}

func (p *parser) parsePositionSettings() (ast.Position, error) {
	var pos ast.Position
	for {
		name, err := p.c.expect(token.NAME, "an axis name")
		if err != nil {
			return ast.Position{}, err
		}
		if _, err := p.c.expect(token.COLON, "':'"); err != nil {
			return ast.Position{}, err
		}
		numTok, err := p.c.expect(token.NUMBER, "a position value")
		if err != nil {
			return ast.Position{}, err
		}
		n, err := strconv.ParseFloat(numTok.Text, 64)
		if err != nil {
			return ast.Position{}, badNumberError(numTok)
		}
		v := n
		switch strings.ToLower(name.Text) {
		case "x":
			pos.X = &v
		case "y":
			pos.Y = &v
		case "z":
			pos.Z = &v
		case "rx":
			pos.RX = &v
		case "ry":
			pos.RY = &v
		case "rz":
			pos.RZ = &v
		default:
			return ast.Position{}, unexpectedTokenError(name, "an axis name (x, y, z, rx, ry, rz)")
		}
		if p.c.at(token.COMMA) {
			comma := p.c.advance()
			if p.c.at(token.SEMI) {
				return ast.Position{}, trailingCommaError(comma)
			}
			continue
		}
		break
	}
	return pos, nil
}

// parseAnimationStatement parses an AnimationDefinition (`A[name] =
// key:value, …;`, or with `:+` for append mode) or an AnimationFrame
// (`A[name, frameIndex] = P[1](…), P[2](…);`).
func (p *parser) parseAnimationStatement() (ast.Expression, error) {
	t := p.c.advance() // the A[...] NAMESPACED token
	m := p.meta(t.Line(), t.Col())
	name, frameIndexText, hasFrame := strings.Cut(t.Text, ",")
	name = strings.TrimSpace(name)

	appendMode := false
	switch p.c.peek().Kind {
	case token.EQUALS:
		p.c.advance()
	case token.COLON_PLUS:
		p.c.advance()
		appendMode = true
	default:
		return nil, unexpectedTokenError(p.c.peek(), "'=' or ':+'")
	}

	if p.c.atNamespace("P") {
		frameIndex := 0
		if hasFrame {
			n, err := strconv.Atoi(strings.TrimSpace(frameIndexText))
			if err != nil {
				return nil, badNumberError(t)
			}
			frameIndex = n
		}
		var pixels []ast.PixelId
		for {
			el, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			px, ok := el.Id.(ast.PixelId)
			if !ok {
				return nil, unexpectedTokenError(t, "a pixel id")
			}
			pixels = append(pixels, px)
			if p.c.at(token.COMMA) {
				comma := p.c.advance()
				if p.c.at(token.SEMI) {
					return nil, trailingCommaError(comma)
				}
				continue
			}
			break
		}
		return ast.AnimationFrame{M: m, Name: name, FrameIndex: frameIndex, Pixels: pixels}, nil
	}

	settings := map[string]ast.Value{}
	for {
		key, err := p.c.expect(token.NAME, "a setting name")
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expect(token.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		settings[key.Text] = val
		if p.c.at(token.COMMA) {
			comma := p.c.advance()
			if p.c.at(token.SEMI) {
				return nil, trailingCommaError(comma)
			}
			continue
		}
		break
	}
	return ast.AnimationDefinition{M: m, Name: name, Settings: settings, AppendMode: appendMode}, nil
}
