// Package facade implements the read-only view over finalized
// compiler output that emitters are handed (spec §4.6): FinalData
// plus the merged variable store, with type-coercion helpers for
// configuration variables. A Facade has no mutating methods; its
// accessors return the backing slices and maps themselves, not copies.
package facade

import (
	"strconv"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/final"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc/merge"
)

// Facade wraps a FinalData and its originating variable store behind
// a read-only API.
type Facade struct {
	data      *final.FinalData
	variables map[string]merge.MergedVariable
	names     map[string]merge.MergedName
}

// New wraps fd and the variable/name stores folded by package merge.
func New(fd *final.FinalData, mc *merge.MergeContext) *Facade {
	return &Facade{data: fd, variables: mc.Variables, names: mc.Names}
}

func (f *Facade) Layers() []final.FinalLayer        { return f.data.Layers }
func (f *Facade) TriggerMacros() []ast.Sequence     { return f.data.TriggerMacros }
func (f *Facade) ResultMacros() []ast.Sequence      { return f.data.ResultMacros }
func (f *Facade) Capabilities() []ast.Capability    { return f.data.Capabilities }
func (f *Facade) PixelMap() []final.PixelMapping    { return f.data.PixelMap }
func (f *Facade) PixelDisplayMap() [][]uint32       { return f.data.PixelDisplayMap }
func (f *Facade) ScanCodePositions() []final.ScanCodePosition { return f.data.ScanCodePositions }
func (f *Facade) PixelPositions() []final.PixelPosition        { return f.data.PixelPositions }

// Animations returns the merged animation states by name.
func (f *Facade) Animations() map[string]*kctx.AnimationState { return f.data.Animations }

// AnimationFrames returns, per animation name, its frame index ->
// pixel-tuple table.
func (f *Facade) AnimationFrames() map[string]map[int][]ast.PixelId { return f.data.AnimationFrames }

// Layer returns the layer at the given projected index (0 = base,
// N+1 = PartialMap_N), if present.
func (f *Facade) Layer(index int) (final.FinalLayer, bool) {
	for _, l := range f.data.Layers {
		if l.Index == index {
			return l, true
		}
	}
	return final.FinalLayer{}, false
}

// TriggerAt and ResultAt index directly into the macro tables; out-of-
// range indices report ok=false rather than panicking, since emitters
// may hold a stale index across a future recompile.
func (f *Facade) TriggerAt(index int) (ast.Sequence, bool) {
	if index < 0 || index >= len(f.data.TriggerMacros) {
		return ast.Sequence{}, false
	}
	return f.data.TriggerMacros[index], true
}

func (f *Facade) ResultAt(index int) (ast.Sequence, bool) {
	if index < 0 || index >= len(f.data.ResultMacros) {
		return ast.Sequence{}, false
	}
	return f.data.ResultMacros[index], true
}

// VariableNames returns every configuration variable name known to
// this Facade, for callers (package emit) that need to enumerate the
// whole variable store rather than look up one name at a time.
func (f *Facade) VariableNames() []string {
	names := make([]string, 0, len(f.variables))
	for name := range f.variables {
		names = append(names, name)
	}
	return names
}

// Variable returns the raw merged view of one variable, for callers
// that need more than the String/Int/Bool coercion helpers provide
// (package emit's canonical-KLL regeneration renders a Value's own
// kind directly rather than coercing it).
func (f *Facade) Variable(name string) (merge.MergedVariable, bool) {
	v, ok := f.variables[name]
	return v, ok
}

// NameNames returns every symbolic name/define known to this Facade.
func (f *Facade) NameNames() []string {
	names := make([]string, 0, len(f.names))
	for name := range f.names {
		names = append(names, name)
	}
	return names
}

// NameSymbol resolves a symbolic name or define to its target symbol.
func (f *Facade) NameSymbol(name string) (symbol string, isDefine, ok bool) {
	n, ok := f.names[name]
	if !ok {
		return "", false, false
	}
	return n.Symbol, n.IsDefine, true
}

// String coerces a configuration variable to a string. A scalar
// string value returns directly; a scalar number renders via its
// decimal text form; an array has no scalar coercion.
func (f *Facade) String(name string) (string, bool) {
	v, ok := f.variables[name]
	if !ok || v.IsArray {
		return "", false
	}
	switch v.Scalar.Kind {
	case ast.ValueString:
		return v.Scalar.Str, true
	case ast.ValueNumber:
		return strconv.FormatInt(v.Scalar.Num.Value, 10), true
	case ast.ValueId:
		if v.Scalar.Id != nil {
			return v.Scalar.Id.Canonical(), true
		}
	}
	return "", false
}

// Int coerces a configuration variable to an integer. A numeric
// scalar returns its folded value directly; a string scalar is parsed
// as a decimal/hex/binary literal the way the tokenizer itself would.
func (f *Facade) Int(name string) (int64, bool) {
	v, ok := f.variables[name]
	if !ok || v.IsArray {
		return 0, false
	}
	switch v.Scalar.Kind {
	case ast.ValueNumber:
		return v.Scalar.Num.Value, true
	case ast.ValueString:
		n, err := strconv.ParseInt(v.Scalar.Str, 0, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool coerces a configuration variable to a boolean: a numeric zero
// is false, any other number is true; the strings "true"/"True"/"TRUE"/
// "1" and "false"/"False"/"FALSE"/"0"/"" map directly, and any other
// string reports ok=false.
func (f *Facade) Bool(name string) (bool, bool) {
	v, ok := f.variables[name]
	if !ok || v.IsArray {
		return false, false
	}
	switch v.Scalar.Kind {
	case ast.ValueNumber:
		return v.Scalar.Num.Value != 0, true
	case ast.ValueString:
		switch v.Scalar.Str {
		case "true", "True", "TRUE", "1":
			return true, true
		case "false", "False", "FALSE", "0", "":
			return false, true
		}
	}
	return false, false
}

// StringArray returns an array-valued variable's elements rendered as
// strings, in index order.
func (f *Facade) StringArray(name string) ([]string, bool) {
	v, ok := f.variables[name]
	if !ok || !v.IsArray {
		return nil, false
	}
	out := make([]string, len(v.Array))
	for i, val := range v.Array {
		switch val.Kind {
		case ast.ValueString:
			out[i] = val.Str
		case ast.ValueNumber:
			out[i] = strconv.FormatInt(val.Num.Value, 10)
		case ast.ValueId:
			if val.Id != nil {
				out[i] = val.Id.Canonical()
			}
		}
	}
	return out, true
}
