package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/facade"
)

// KLL regenerates f as a canonical .kll source file (spec §6: "one
// statement per line, ids and schedules in canonical form, stable
// ordering (by kind then by key)"). Regeneration renders the finalized
// view, not the override history that produced it — a mapping's
// trigger/result are already fully resolved by the time they reach
// FinalData, so every mapping statement uses the plain ':' operator.
// A second parse→merge→finalize→emit.KLL pass over this output is
// idempotent up to that canonical form (spec §8).
func KLL(f *facade.Facade) (string, error) {
	var b strings.Builder

	emitVariables(&b, f)
	emitNames(&b, f)
	emitCapabilities(&b, f)
	emitMappings(&b, f)
	emitPositions(&b, f)
	emitAnimations(&b, f)

	return b.String(), nil
}

func emitVariables(b *strings.Builder, f *facade.Facade) {
	names := f.VariableNames()
	sort.Strings(names)
	for _, name := range names {
		v, ok := f.Variable(name)
		if !ok {
			continue
		}
		if v.IsArray {
			parts := make([]string, len(v.Array))
			for i, val := range v.Array {
				parts[i] = renderValue(val)
			}
			fmt.Fprintf(b, "%s[] = %s;\n", name, strings.Join(parts, ", "))
		} else {
			fmt.Fprintf(b, "%s = %s;\n", name, renderValue(v.Scalar))
		}
	}
}

func renderValue(v ast.Value) string {
	switch v.Kind {
	case ast.ValueString:
		return strconv.Quote(v.Str)
	case ast.ValueNumber:
		if v.Num.IsTiming {
			return v.Num.Timing.String()
		}
		return strconv.FormatInt(v.Num.Value, 10)
	case ast.ValueId:
		if v.Id != nil {
			return v.Id.Canonical()
		}
	}
	return ""
}

func emitNames(b *strings.Builder, f *facade.Facade) {
	names := f.NameNames()
	sort.Strings(names)
	for _, name := range names {
		symbol, isDefine, ok := f.NameSymbol(name)
		if !ok {
			continue
		}
		if isDefine {
			fmt.Fprintf(b, "define %s = %s;\n", name, symbol)
		} else {
			fmt.Fprintf(b, "symbol %s = %s;\n", name, symbol)
		}
	}
}

func emitCapabilities(b *strings.Builder, f *facade.Facade) {
	caps := append([]ast.Capability(nil), f.Capabilities()...)
	sort.Slice(caps, func(i, j int) bool { return caps[i].Name < caps[j].Name })
	for _, c := range caps {
		types := make([]string, len(c.ArgTypes))
		for i, t := range c.ArgTypes {
			types[i] = capArgTypeName(t)
		}
		fmt.Fprintf(b, "capability %s = %s(%s);\n", c.Name, c.Symbol, strings.Join(types, ", "))
	}
}

func emitMappings(b *strings.Builder, f *facade.Facade) {
	for _, layer := range f.Layers() {
		keys := make([]int, 0, len(layer.Triggers))
		for ti := range layer.Triggers {
			keys = append(keys, ti)
		}
		sort.Slice(keys, func(i, j int) bool {
			ta, _ := f.TriggerAt(keys[i])
			tb, _ := f.TriggerAt(keys[j])
			return ta.Canonical() < tb.Canonical()
		})
		for _, ti := range keys {
			trigger, ok := f.TriggerAt(ti)
			if !ok {
				continue
			}
			result, ok := f.ResultAt(layer.Triggers[ti])
			if !ok {
				continue
			}
			fmt.Fprintf(b, "%s : %s;\n", renderSequence(trigger), renderSequence(result))
		}
	}
}

func renderSequence(s ast.Sequence) string {
	parts := make([]string, len(s.Combos))
	for i, c := range s.Combos {
		parts[i] = renderCombo(c)
	}
	return strings.Join(parts, ", ")
}

func renderCombo(c ast.Combo) string {
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = renderElement(e)
	}
	return strings.Join(parts, " + ")
}

func renderElement(e ast.Element) string {
	// Finalization expands every ast.IdRange before a Sequence reaches
	// a trigger/result macro table (spec §4.5 "range expansion is
	// late"), so Element.Id is always set on finalized data.
	base := ""
	if e.Id != nil {
		base = e.Id.Canonical()
	}
	return base + e.Schedule.Canonical()
}

func emitPositions(b *strings.Builder, f *facade.Facade) {
	for _, sp := range f.ScanCodePositions() {
		if s := renderPosition(sp.Position); s != "" {
			fmt.Fprintf(b, "S0x%x = %s;\n", sp.Code, s)
		}
	}
	for _, pp := range f.PixelPositions() {
		if s := renderPosition(pp.Position); s != "" {
			fmt.Fprintf(b, "P[%d] = %s;\n", pp.Index, s)
		}
	}
}

func renderPosition(p ast.Position) string {
	var parts []string
	add := func(name string, v *float64) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s:%s", name, strconv.FormatFloat(*v, 'g', -1, 64)))
		}
	}
	add("x", p.X)
	add("y", p.Y)
	add("z", p.Z)
	add("rx", p.RX)
	add("ry", p.RY)
	add("rz", p.RZ)
	return strings.Join(parts, ", ")
}

func emitAnimations(b *strings.Builder, f *facade.Facade) {
	names := make([]string, 0)
	anims := f.Animations()
	for name := range anims {
		names = append(names, name)
	}
	sort.Strings(names)

	frames := f.AnimationFrames()
	for _, name := range names {
		st := anims[name]
		keys := make([]string, 0, len(st.Settings))
		for k := range st.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		settings := make([]string, len(keys))
		for i, k := range keys {
			settings[i] = fmt.Sprintf("%s:%s", k, renderValue(st.Settings[k]))
		}
		if len(settings) > 0 {
			fmt.Fprintf(b, "A[%s] = %s;\n", name, strings.Join(settings, ", "))
		}

		frameIdx := make([]int, 0, len(frames[name]))
		for idx := range frames[name] {
			frameIdx = append(frameIdx, idx)
		}
		sort.Ints(frameIdx)
		for _, idx := range frameIdx {
			pixels := frames[name][idx]
			parts := make([]string, len(pixels))
			for i, px := range pixels {
				parts[i] = px.Canonical()
			}
			fmt.Fprintf(b, "A[%s, %d] = %s;\n", name, idx, strings.Join(parts, ", "))
		}
	}
}
