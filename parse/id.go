package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/token"
)

// parseElement parses one `idExpr := ns-id schedule?` (spec §4.2). It
// returns an ast.Element wrapping either a concrete ast.Id or an
// unexpanded ast.IdRange — range expansion happens at finalization,
// not here (spec §4.5 design note).
func (p *parser) parseElement() (ast.Element, error) {
	t := p.c.peek()

	if t.Kind == token.NAME {
		if t.Text == "None" {
			p.c.advance()
			return ast.Element{Id: ast.NoneId{}}, nil
		}
		if p.c.peekAt(1).Kind == token.PAREN_OPEN {
			id, err := p.parseCallLikeId()
			if err != nil {
				return ast.Element{}, err
			}
			return ast.Element{Id: id}, nil
		}
	}

	if t.Kind == token.CODEPOINT {
		p.c.advance()
		cp, err := strconv.ParseInt(t.Text, 16, 32)
		if err != nil {
			return ast.Element{}, badNumberError(t)
		}
		return ast.Element{Id: ast.UnicodeCodePointId{CodePoint: rune(cp)}}, nil
	}

	if t.Kind == token.CHARSTRING {
		p.c.advance()
		return ast.Element{Id: ast.CharacterId{Char: t.Text}}, nil
	}

	if t.Kind == token.USTRING {
		p.c.advance()
		return ast.Element{Id: ast.StringId{Value: t.Text}}, nil
	}

	if t.Kind != token.NAMESPACED {
		return ast.Element{}, unexpectedTokenError(t, "an id expression")
	}

	switch t.Namespace {
	case "U":
		return p.parseHidElement(ast.HidKeyboard)
	case "CONS":
		return p.parseHidElement(ast.HidConsumer)
	case "SYS":
		return p.parseHidElement(ast.HidSystem)
	case "I", "LED":
		return p.parseHidElement(ast.HidIndicator)
	case "LOC":
		return p.parseHidElement(ast.HidLocale)
	case "S":
		return p.parseScanCodeElement()
	case "CODE":
		return p.parseUsbCodeElement()
	case "P":
		return p.parsePixelElement()
	case "PL":
		return p.parsePixelLayerElement()
	case "A":
		return p.parseAnimationElement()
	case "T":
		p.c.advance()
		return ast.Element{Id: ast.GenericTriggerId{Name: t.Text}}, nil
	default:
		return ast.Element{}, unknownNamespaceError(t)
	}
}

// trailingSchedule consumes an optional `'(' scheduleParam (','
// scheduleParam)* ')'` immediately following a quoted or bracketed
// namespaced token (the tokenizer leaves this as separate tokens for
// those forms; see token/scanner.go).
func (p *parser) trailingSchedule() (*ast.Schedule, error) {
	if !p.c.at(token.PAREN_OPEN) {
		return nil, nil
	}
	p.c.advance()
	sched := &ast.Schedule{}
	for {
		if p.c.at(token.PAREN_CLOSE) {
			p.c.advance()
			break
		}
		param, err := p.parseScheduleParam()
		if err != nil {
			return nil, err
		}
		sched.Params = append(sched.Params, param)
		if p.c.at(token.COMMA) {
			p.c.advance()
			continue
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return nil, err
		}
		break
	}
	if state, dup := sched.DuplicateState(); dup {
		return nil, duplicateScheduleStateError(p.c.peek(), state.String())
	}
	return sched, nil
}

func (p *parser) parseScheduleParam() (ast.ScheduleParam, error) {
	t := p.c.peek()
	if t.Kind == token.NAME {
		if state, ok := ast.ParseScheduleState(t.Text); ok {
			p.c.advance()
			param := ast.ScheduleParam{HasState: true, State: state}
			if p.c.at(token.COLON) {
				p.c.advance()
				v := p.c.peek()
				if v.Kind != token.NUMBER {
					return ast.ScheduleParam{}, unexpectedTokenError(v, "a timing or analog value")
				}
				p.c.advance()
				if dur, isTiming, err := parseNumberLiteral(v); err != nil {
					return ast.ScheduleParam{}, err
				} else if isTiming {
					param.HasTiming = true
					param.Timing = dur
				} else {
					n, _ := strconv.ParseUint(stripUnit(v.Text), 0, 8)
					param.HasAnalog = true
					param.Analog = uint8(n)
				}
			}
			return param, nil
		}
		return ast.ScheduleParam{}, badScheduleError(t, "expected a schedule state name")
	}
	if t.Kind == token.NUMBER {
		p.c.advance()
		dur, isTiming, err := parseNumberLiteral(t)
		if err != nil {
			return ast.ScheduleParam{}, err
		}
		if isTiming {
			return ast.ScheduleParam{HasTiming: true, Timing: dur}, nil
		}
		n, _ := strconv.ParseUint(stripUnit(t.Text), 0, 8)
		return ast.ScheduleParam{HasAnalog: true, Analog: uint8(n)}, nil
	}
	return ast.ScheduleParam{}, badScheduleError(t, "expected a state, timing, or analog value")
}

// parseNumberLiteral folds a NUMBER token's text into either a plain
// integer or a time.Duration, per its unit suffix (spec §1: numeric
// folding happens only where the grammar requires it — timing units
// are exactly that place).
func parseNumberLiteral(t token.Token) (time.Duration, bool, error) {
	text := t.Text
	for _, unit := range []string{"ms", "us", "ns", "s"} {
		if strings.HasSuffix(text, unit) && !strings.HasSuffix(text, "0x"+unit) {
			numText := strings.TrimSuffix(text, unit)
			n, err := strconv.ParseInt(numText, 0, 64)
			if err != nil {
				return 0, false, badNumberError(t)
			}
			var scale time.Duration
			switch unit {
			case "s":
				scale = time.Second
			case "ms":
				scale = time.Millisecond
			case "us":
				scale = time.Microsecond
			case "ns":
				scale = time.Nanosecond
			}
			return time.Duration(n) * scale, true, nil
		}
	}
	return 0, false, nil
}

func stripUnit(text string) string {
	for _, unit := range []string{"ms", "us", "ns", "s"} {
		if strings.HasSuffix(text, unit) {
			return strings.TrimSuffix(text, unit)
		}
	}
	return text
}

func parseUintLiteral(t token.Token, bits int) (uint64, error) {
	n, err := strconv.ParseUint(stripUnit(t.Text), 0, bits)
	if err != nil {
		return 0, badNumberError(t)
	}
	return n, nil
}

// splitRangeText splits namespaced bracket content on its top-level
// '-' (outside quotes and parens), used to tell a bracketed single id
// (`S[0x43(P,UP,UR)]`, no dash) from a genuine range
// (`S[0x43(P,UP,UR)-0x50]`).
func splitRangeText(s string) (low, high string, isRange bool) {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
		case '-':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

func (p *parser) parseHidElement(kind ast.HidKind) (ast.Element, error) {
	t := p.c.advance()
	low, high, isRange := splitRangeText(t.Text)
	if isRange {
		lo, err := parseHidBound(low)
		if err != nil {
			return ast.Element{}, badNumberError(t)
		}
		hi, err := parseHidBound(high)
		if err != nil {
			return ast.Element{}, badNumberError(t)
		}
		sched, err := hidBoundSchedule(low)
		if err != nil {
			return ast.Element{}, badScheduleError(t, err.Error())
		}
		return ast.Element{Range: &ast.IdRange{Kind: ast.KindHid, HKind: kind, Low: lo, High: hi, Schedule: sched}}, nil
	}

	id, sched, err := parseHidSingle(kind, t.Text)
	if err != nil {
		return ast.Element{}, badNumberError(t)
	}
	if sched == nil {
		sched, err = p.trailingSchedule()
		if err != nil {
			return ast.Element{}, err
		}
	}
	return ast.Element{Id: id, Schedule: sched}, nil
}

// parseHidSingle parses one bound of a HID id/range: either a quoted
// symbol (optionally followed by an embedded `(schedule)`, for the
// bracketed single-id spelling) or a bare numeric code.
func parseHidSingle(kind ast.HidKind, text string) (ast.Id, *ast.Schedule, error) {
	if strings.HasPrefix(text, `"`) {
		sym, rest := readQuoted(text)
		var sched *ast.Schedule
		if strings.HasPrefix(rest, "(") {
			s, err := parseEmbeddedSchedule(rest)
			if err != nil {
				return nil, nil, err
			}
			sched = s
		}
		return ast.HidId{HKind: kind, Symbol: sym}, sched, nil
	}
	numText, rest := readNumeric(text)
	n, err := strconv.ParseUint(numText, 0, 32)
	if err != nil {
		return nil, nil, err
	}
	var sched *ast.Schedule
	if strings.HasPrefix(rest, "(") {
		s, err := parseEmbeddedSchedule(rest)
		if err != nil {
			return nil, nil, err
		}
		sched = s
	}
	return ast.HidId{HKind: kind, Code: uint16(n)}, sched, nil
}

// parseHidBound reads one bound of a HID range. A quoted bound
// (`U["1"-"5"]`) is reduced to its first rune's codepoint — correct
// for the common single-character keypad-symbol ranges this form is
// for; resolving a multi-character symbol to a HID code needs the
// symbol database kctx owns, not something available here.
func parseHidBound(text string) (uint32, error) {
	numText, _ := readNumeric(text)
	if numText == "" {
		sym, _ := readQuoted(text)
		if sym == "" {
			return 0, strconv.ErrSyntax
		}
		r := []rune(sym)
		return uint32(r[0]), nil
	}
	n, err := strconv.ParseUint(numText, 0, 32)
	return uint32(n), err
}

func hidBoundSchedule(low string) (*ast.Schedule, error) {
	_, rest := readNumeric(low)
	if rest == "" {
		_, rest = readQuoted(low)
	}
	if !strings.HasPrefix(rest, "(") {
		return nil, nil
	}
	return parseEmbeddedSchedule(rest)
}

func readNumeric(text string) (numText, rest string) {
	i := 0
	for i < len(text) && (isHexLike(text[i])) {
		i++
	}
	return text[:i], text[i:]
}

func isHexLike(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == 'x' || c == 'b' || c == 'X' || c == 'B'
}

func readQuoted(text string) (sym, rest string) {
	if len(text) == 0 || text[0] != '"' {
		return "", text
	}
	i := 1
	for i < len(text) && text[i] != '"' {
		if text[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(text) {
		return text[1:], ""
	}
	return text[1:i], text[i+1:]
}

// parseEmbeddedSchedule parses a `(state,state:timing,...)` schedule
// that the tokenizer left embedded in a NAMESPACED token's own text
// (the bare-numeric and bracketed forms; see token/scanner.go).
func parseEmbeddedSchedule(text string) (*ast.Schedule, error) {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, &kllcBadScheduleText{text}
	}
	inner := text[1 : len(text)-1]
	sched := &ast.Schedule{}
	if inner == "" {
		return sched, nil
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		param, err := parseEmbeddedScheduleParam(part)
		if err != nil {
			return nil, err
		}
		sched.Params = append(sched.Params, param)
	}
	if state, dup := sched.DuplicateState(); dup {
		return nil, &kllcBadScheduleText{"duplicate state " + state.String()}
	}
	return sched, nil
}

func parseEmbeddedScheduleParam(part string) (ast.ScheduleParam, error) {
	name, value, hasValue := strings.Cut(part, ":")
	if state, ok := ast.ParseScheduleState(name); ok {
		param := ast.ScheduleParam{HasState: true, State: state}
		if hasValue {
			if dur, isTiming, err := parseNumberLiteral(token.Token{Text: value}); err == nil && isTiming {
				param.HasTiming = true
				param.Timing = dur
			} else {
				n, err := strconv.ParseUint(stripUnit(value), 0, 8)
				if err != nil {
					return ast.ScheduleParam{}, &kllcBadScheduleText{part}
				}
				param.HasAnalog = true
				param.Analog = uint8(n)
			}
		}
		return param, nil
	}
	if dur, isTiming, err := parseNumberLiteral(token.Token{Text: part}); err == nil && isTiming {
		return ast.ScheduleParam{HasTiming: true, Timing: dur}, nil
	}
	n, err := strconv.ParseUint(stripUnit(part), 0, 8)
	if err != nil {
		return ast.ScheduleParam{}, &kllcBadScheduleText{part}
	}
	return ast.ScheduleParam{HasAnalog: true, Analog: uint8(n)}, nil
}

type kllcBadScheduleText struct{ text string }

func (e *kllcBadScheduleText) Error() string { return "invalid embedded schedule: " + e.text }

func (p *parser) parseScanCodeElement() (ast.Element, error) {
	t := p.c.advance()
	low, high, isRange := splitRangeText(t.Text)
	if isRange {
		loNum, loSched := splitEmbeddedSchedule(low)
		hiNum, _ := splitEmbeddedSchedule(high)
		lo, err := strconv.ParseUint(loNum, 0, 32)
		if err != nil {
			return ast.Element{}, badNumberError(t)
		}
		hi, err := strconv.ParseUint(hiNum, 0, 32)
		if err != nil {
			return ast.Element{}, badNumberError(t)
		}
		var sched *ast.Schedule
		if loSched != "" {
			s, err := parseEmbeddedSchedule(loSched)
			if err != nil {
				return ast.Element{}, badScheduleError(t, err.Error())
			}
			sched = s
		}
		return ast.Element{Range: &ast.IdRange{Kind: ast.KindScanCode, Low: uint32(lo), High: uint32(hi), Schedule: sched}}, nil
	}

	numText, schedText := splitEmbeddedSchedule(t.Text)
	code, err := strconv.ParseUint(numText, 0, 32)
	if err != nil {
		return ast.Element{}, badNumberError(t)
	}
	var sched *ast.Schedule
	if schedText != "" {
		s, err := parseEmbeddedSchedule(schedText)
		if err != nil {
			return ast.Element{}, badScheduleError(t, err.Error())
		}
		sched = s
	} else {
		sched, err = p.trailingSchedule()
		if err != nil {
			return ast.Element{}, err
		}
	}
	return ast.Element{Id: ast.ScanCodeId{Code: uint16(code)}, Schedule: sched}, nil
}

func splitEmbeddedSchedule(text string) (numText, schedText string) {
	numText, rest := readNumeric(text)
	return numText, rest
}

func (p *parser) parseUsbCodeElement() (ast.Element, error) {
	t := p.c.advance()
	n, err := strconv.ParseUint(t.Text, 0, 32)
	if err != nil {
		return ast.Element{}, badNumberError(t)
	}
	sched, err := p.trailingSchedule()
	if err != nil {
		return ast.Element{}, err
	}
	return ast.Element{Id: ast.UsbCodeId{Code: uint16(n)}, Schedule: sched}, nil
}

func (p *parser) parsePixelElement() (ast.Element, error) {
	t := p.c.advance()
	idx, err := strconv.ParseUint(strings.TrimPrefix(t.Text, "+"), 0, 32)
	if err != nil {
		return ast.Element{}, badNumberError(t)
	}
	mode := ast.PixelAbsolute
	if strings.HasPrefix(t.Text, "+") || strings.HasPrefix(t.Text, "-") {
		mode = ast.PixelRelativeSigned
	}
	var channels []ast.PixelChannel
	if p.c.at(token.PAREN_OPEN) {
		p.c.advance()
		for !p.c.at(token.PAREN_CLOSE) {
			ch, err := p.parsePixelChannel()
			if err != nil {
				return ast.Element{}, err
			}
			channels = append(channels, ch)
			if p.c.at(token.COMMA) {
				p.c.advance()
				continue
			}
			break
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return ast.Element{}, err
		}
	}
	return ast.Element{Id: ast.PixelId{Index: uint32(idx), Channels: channels, AddressMode: mode}}, nil
}

func (p *parser) parsePixelChannel() (ast.PixelChannel, error) {
	channel, err := p.c.expect(token.NUMBER, "a channel number")
	if err != nil {
		return ast.PixelChannel{}, err
	}
	ch, err := parseUintLiteral(channel, 8)
	if err != nil {
		return ast.PixelChannel{}, err
	}
	if _, err := p.c.expect(token.COLON, "':'"); err != nil {
		return ast.PixelChannel{}, err
	}
	value, err := p.c.expect(token.NUMBER, "a channel value")
	if err != nil {
		return ast.PixelChannel{}, err
	}
	v, err := parseUintLiteral(value, 8)
	if err != nil {
		return ast.PixelChannel{}, err
	}
	return ast.PixelChannel{Channel: uint8(ch), Value: uint8(v)}, nil
}

func (p *parser) parsePixelLayerElement() (ast.Element, error) {
	t := p.c.advance()
	idx, err := strconv.ParseUint(t.Text, 0, 32)
	if err != nil {
		return ast.Element{}, badNumberError(t)
	}
	return ast.Element{Id: ast.PixelLayerId{Index: uint32(idx)}}, nil
}

func (p *parser) parseAnimationElement() (ast.Element, error) {
	t := p.c.advance()
	name := t.Text
	if idx := strings.IndexByte(name, ','); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	var mods []ast.AnimationModifier
	if p.c.at(token.PAREN_OPEN) {
		p.c.advance()
		for !p.c.at(token.PAREN_CLOSE) {
			m, err := p.parseAnimationModifier()
			if err != nil {
				return ast.Element{}, err
			}
			mods = append(mods, m)
			if p.c.at(token.COMMA) {
				p.c.advance()
				continue
			}
			break
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return ast.Element{}, err
		}
	}
	return ast.Element{Id: ast.AnimationId{Name: name, Modifiers: mods}}, nil
}

func (p *parser) parseAnimationModifier() (ast.AnimationModifier, error) {
	name, err := p.c.expect(token.NAME, "a modifier name")
	if err != nil {
		return ast.AnimationModifier{}, err
	}
	mod := ast.AnimationModifier{Name: name.Text}
	if p.c.at(token.PAREN_OPEN) {
		p.c.advance()
		for !p.c.at(token.PAREN_CLOSE) {
			arg := p.c.advance()
			mod.Args = append(mod.Args, arg.Text)
			if p.c.at(token.COMMA) {
				p.c.advance()
				continue
			}
			break
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return ast.AnimationModifier{}, err
		}
	}
	return mod, nil
}

// layerCallNames maps the reserved layer-control call names to their
// ast.LayerKind, distinguishing `Shift(1)` etc. from an ordinary
// capability call of the same `Name(args)` shape.
var layerCallNames = map[string]ast.LayerKind{
	"Shift":   ast.LayerShift,
	"Latch":   ast.LayerLatch,
	"Lock":    ast.LayerLock,
	"Default": ast.LayerDefault,
}

func (p *parser) parseCallLikeId() (ast.Id, error) {
	name := p.c.advance()
	p.c.advance() // '('
	if lk, ok := layerCallNames[name.Text]; ok {
		idx, err := p.c.expect(token.NUMBER, "a layer index")
		if err != nil {
			return nil, err
		}
		n, err := parseUintLiteral(idx, 32)
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
			return nil, err
		}
		return ast.LayerId{LKind: lk, Index: uint32(n)}, nil
	}

	var args []ast.CapArg
	for !p.c.at(token.PAREN_CLOSE) {
		arg, err := p.parseCapArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.c.at(token.COMMA) {
			p.c.advance()
			continue
		}
		break
	}
	if _, err := p.c.expect(token.PAREN_CLOSE, "')'"); err != nil {
		return nil, err
	}
	return ast.CapabilityId{Name: name.Text, Args: args}, nil
}

func (p *parser) parseCapArg() (ast.CapArg, error) {
	t := p.c.peek()
	switch t.Kind {
	case token.NUMBER:
		p.c.advance()
		n, err := parseUintLiteral(t, 64)
		if err != nil {
			return ast.CapArg{}, err
		}
		return ast.CapArg{Kind: ast.CapArgInt, Int: int64(n)}, nil
	case token.STRING, token.CHARSTRING, token.USTRING:
		p.c.advance()
		return ast.CapArg{Kind: ast.CapArgString, Str: t.Text}, nil
	default:
		el, err := p.parseElement()
		if err != nil {
			return ast.CapArg{}, err
		}
		if el.Id == nil {
			return ast.CapArg{}, unexpectedTokenError(t, "a capability argument")
		}
		return ast.CapArg{Kind: ast.CapArgId, Id: el.Id}, nil
	}
}
