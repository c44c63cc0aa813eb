package ast

import (
	"sort"
	"strings"
)

// IdRange is a symbolic, not-yet-expanded id range (e.g. `S[0x43-0x50]`
// or a range over a namespaced literal like `U["1"-"5"]`). Range
// expansion happens only at finalization (spec §4.5, design note
// "range expansion is late") so that overrides can still target the
// symbolic range form during merge.
type IdRange struct {
	// Kind is the kind of id this range expands into.
	Kind IdKind
	// HKind is meaningful only when Kind == KindHid.
	HKind HidKind
	Low, High uint32
	// Schedule, when non-nil, applies to every id this range expands
	// into (e.g. `S[0x43(P,UP,UR)-0x50]`).
	Schedule *Schedule
}

func (r IdRange) canonical() string {
	prefix := "S"
	if r.Kind == KindHid {
		prefix = r.HKind.prefix()
	}
	sched := ""
	if r.Schedule != nil {
		sched = r.Schedule.Canonical()
	}
	return prefixRangeCanonical(prefix, r.Low, r.High, sched)
}

func prefixRangeCanonical(prefix string, low, high uint32, sched string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('[')
	writeHex(&b, low)
	b.WriteByte('-')
	writeHex(&b, high)
	b.WriteByte(']')
	b.WriteString(sched)
	return b.String()
}

func writeHex(b *strings.Builder, v uint32) {
	const hexDigits = "0123456789abcdef"
	b.WriteString("0x")
	if v == 0 {
		b.WriteByte('0')
		return
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	b.Write(buf[i:])
}

// Element is one id-with-schedule inside a Combo (spec §4.2:
// `idExpr := ns-id schedule?`). Exactly one of Id or Range is set;
// Range holds an unexpanded id range that finalization will expand.
type Element struct {
	Id       Id
	Range    *IdRange
	Schedule *Schedule
}

func (e Element) canonical() string {
	var base string
	if e.Range != nil {
		base = e.Range.canonical()
	} else {
		base = e.Id.Canonical()
	}
	return base + e.Schedule.Canonical()
}

// Combo is a set of Elements held simultaneously. Canonical ordering
// sorts elements by their serialized form so that {A,B} and {B,A}
// produce an identical trigger-key, per spec §3 ("ordered set of ids
// with their schedules" — "ordered" describes the canonical form, not
// authoring order, since a combo is a simultaneous-activation set).
type Combo struct {
	Elements []Element
}

// Canonical returns the combo's deterministic serialization.
func (c Combo) Canonical() string {
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = e.canonical()
	}
	sort.Strings(parts)
	return strings.Join(parts, "+")
}

// Sequence is an ordered list of Combos (trigger or result side of a
// Mapping). Sequence order is authoring order and is significant.
type Sequence struct {
	Combos []Combo
}

// Canonical returns the deterministic serialization used as a
// trigger-key (spec §3 "Stores" table). Two Sequences with the same
// canonical form are, by definition, the same trigger.
func (s Sequence) Canonical() string {
	parts := make([]string, len(s.Combos))
	for i, c := range s.Combos {
		parts[i] = c.Canonical()
	}
	return strings.Join(parts, ",")
}

// FirstScanCode returns the scan code of the first element of the
// first combo, if the sequence starts with a concrete ScanCodeId —
// used by finalization to build the ScanCode -> trigger-list index
// (spec §4.5).
func (s Sequence) FirstScanCode() (uint16, bool) {
	if len(s.Combos) == 0 || len(s.Combos[0].Elements) == 0 {
		return 0, false
	}
	el := s.Combos[0].Elements[0]
	if el.Id == nil {
		return 0, false
	}
	sc, ok := el.Id.(ScanCodeId)
	if !ok {
		return 0, false
	}
	return sc.Code, true
}
