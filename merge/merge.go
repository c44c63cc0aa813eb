// Package merge folds per-context state (package kctx) into one
// MergeContext in the fixed precedence order of spec §4.4: Generic,
// Configuration, BaseMap, DefaultMap, PartialMaps in declaration
// order, then the explicit Merge role.
package merge

import (
	"sort"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/source"
)

// MergedVariable is the folded view of one variable: exactly one of
// Scalar or Array is meaningful, selected by IsArray.
type MergedVariable struct {
	IsArray bool
	Scalar  ast.Value
	Array   []ast.Value
}

// MergedName is the folded view of one symbolic name/define.
type MergedName struct {
	Symbol   string
	IsDefine bool
}

// MergedMapping is one trigger-key's folded mapping within a layer.
// M is the source position of whichever assignment last touched this
// entry, kept so finalization can order trigger/result macro indices
// by deterministic (context order, then source line order) traversal
// (spec §4.5).
type MergedMapping struct {
	Trigger   ast.Sequence
	Result    ast.Sequence
	Isolated  bool
	Indicator bool
	M         ast.Meta
	// LastOp is the operator that produced this entry's current state,
	// carried over from kctx.MappingEntry.LastOp so a later pass (the
	// USBCode/SysCode/ConsCode -> ScanCode trigger reduction) can still
	// tell a ':' replace from a ':+'/':-' accumulate once a layer's
	// fold has otherwise collapsed every context's override history.
	LastOp ast.MapOp
}

// Layer is one projected output layer: Index 0 is the combined
// BaseMap/DefaultMap/Merge view, Index N+1 is PartialMap_N's own
// entries only (spec §4.4 "Layer projection").
type Layer struct {
	Index    int
	Mappings map[string]*MergedMapping
}

// MergeContext is the complete cross-context fold: one flat view of
// every non-layered store, plus the projected mapping layers.
type MergeContext struct {
	Variables    map[string]MergedVariable
	Capabilities map[string]ast.Capability
	Names        map[string]MergedName
	PixelPos     map[uint32]ast.Position
	ScanCodePos  map[uint16]ast.Position
	Animations   map[string]*kctx.AnimationState

	Layers []*Layer
}

func newMergeContext() *MergeContext {
	return &MergeContext{
		Variables:    map[string]MergedVariable{},
		Capabilities: map[string]ast.Capability{},
		Names:        map[string]MergedName{},
		PixelPos:     map[uint32]ast.Position{},
		ScanCodePos:  map[uint16]ast.Position{},
		Animations:   map[string]*kctx.AnimationState{},
	}
}

// Merge folds every supplied context into a single MergeContext,
// returning accumulated soft warnings (rejected isolation overrides,
// emptied mappings, dropped USB-code triggers) alongside the first hard error (capability signature conflict).
// Contexts may be supplied in any order; Merge sorts them itself.
func Merge(contexts []*kctx.Context) (*MergeContext, []*kllc.Error, error) {
	var warnings []*kllc.Error

	baseCtxs, partialCtxs, mergeCtxs := splitByRole(contexts)

	mc := newMergeContext()

	// Non-mapping stores fold across every context, in full
	// precedence order, independent of layering (spec §4.4: "higher-
	// precedence value replaces lower" for variables/capabilities/
	// name_associations/positions).
	ordered := append(append(append([]*kctx.Context{}, baseCtxs...), partialCtxs...), mergeCtxs...)
	for _, c := range ordered {
		if err := foldGlobalStores(mc, c); err != nil {
			return nil, warnings, err
		}
	}

	layer0 := &Layer{Index: 0, Mappings: map[string]*MergedMapping{}}
	for _, c := range baseCtxs {
		warnings = append(warnings, foldMappingsInto(layer0.Mappings, c.Mappings)...)
	}

	for _, c := range mergeCtxs {
		warnings = append(warnings, foldMappingsInto(layer0.Mappings, c.Mappings)...)
	}

	// Reduce layer 0 before projecting the partial layers, so a partial
	// layer's own USBCode/SysCode/ConsCode triggers can resolve against
	// layer 0's already-reduced ScanCode keys (organization.py runs its
	// reduction() once per finished layer, base layer first).
	warnings = append(warnings, reduceUsbTriggers(layer0.Mappings, nil)...)

	layers := []*Layer{layer0}
	for _, c := range partialCtxs {
		partial := &Layer{Index: c.PartialIndex + 1, Mappings: map[string]*MergedMapping{}}
		warnings = append(warnings, foldPartialLayer(partial.Mappings, layer0.Mappings, c.Mappings)...)
		warnings = append(warnings, reduceUsbTriggers(partial.Mappings, layer0.Mappings)...)
		layers = append(layers, partial)
	}

	sort.Slice(layers, func(i, j int) bool { return layers[i].Index < layers[j].Index })
	mc.Layers = layers

	return mc, warnings, nil
}

// splitByRole partitions contexts into the base-layer band (Generic,
// Configuration, BaseMap, DefaultMap), PartialMaps (sorted by index),
// and the explicit Merge role, each already in fold order.
func splitByRole(contexts []*kctx.Context) (base, partial, merge []*kctx.Context) {
	for _, c := range contexts {
		switch c.Role {
		case source.PartialMap:
			partial = append(partial, c)
		case source.Merge:
			merge = append(merge, c)
		default:
			base = append(base, c)
		}
	}
	sort.Slice(base, func(i, j int) bool { return base[i].Role.Precedence() < base[j].Role.Precedence() })
	sort.Slice(partial, func(i, j int) bool { return partial[i].PartialIndex < partial[j].PartialIndex })
	return base, partial, merge
}

func foldGlobalStores(mc *MergeContext, c *kctx.Context) error {
	for _, name := range c.Variables.Names() {
		if arr, ok := c.Variables.Array(name); ok {
			mc.Variables[name] = MergedVariable{IsArray: true, Array: arr}
			continue
		}
		if sc, ok := c.Variables.Scalar(name); ok {
			mc.Variables[name] = MergedVariable{Scalar: sc}
		}
	}

	for _, name := range c.Capabilities.Names() {
		capa, _ := c.Capabilities.Get(name)
		if existing, ok := mc.Capabilities[name]; ok && !kctx.SameSignature(existing, capa) {
			return duplicateCapabilitySignatureError(capa.M, name)
		}
		mc.Capabilities[name] = capa
	}

	for _, name := range c.Names.Names() {
		symbol, isDefine, _ := c.Names.Get(name)
		mc.Names[name] = MergedName{Symbol: symbol, IsDefine: isDefine}
	}

	for _, key := range c.PixelPos.Keys() {
		pos, _ := c.PixelPos.Get(key)
		mc.PixelPos[key] = mc.PixelPos[key].MergeFrom(pos)
	}
	for _, key := range c.ScanCodePos.Keys() {
		pos, _ := c.ScanCodePos.Get(key)
		mc.ScanCodePos[key] = mc.ScanCodePos[key].MergeFrom(pos)
	}

	for _, name := range c.Animations.Names() {
		st, _ := c.Animations.Get(name)
		mc.Animations[name] = mergeAnimationState(mc.Animations[name], st)
	}

	return nil
}

// mergeAnimationState combines a lower animation state with a higher
// one: settings overlay field-by-field, frames replace wholesale
// unless the higher state is in append-mode, in which case the lower's
// frames are kept and the higher's are laid over them, a higher frame
// replacing a lower one at the same index (spec §4.4).
func mergeAnimationState(lower, higher *kctx.AnimationState) *kctx.AnimationState {
	if lower == nil {
		return higher
	}
	if higher == nil {
		return lower
	}

	merged := &kctx.AnimationState{
		Name:       higher.Name,
		Settings:   map[string]ast.Value{},
		AppendMode: higher.AppendMode,
		Frames:     map[int][]ast.PixelId{},
	}
	for k, v := range lower.Settings {
		merged.Settings[k] = v
	}
	for k, v := range higher.Settings {
		merged.Settings[k] = v
	}

	if higher.AppendMode {
		for idx, px := range lower.Frames {
			merged.Frames[idx] = px
		}
		for idx, px := range higher.Frames {
			merged.Frames[idx] = px
		}
	} else {
		for idx, px := range higher.Frames {
			merged.Frames[idx] = px
		}
	}
	return merged
}
