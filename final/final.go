// Package final implements finalization (spec §4.5): projecting a
// merge.MergeContext into dense, integer-indexed tables ready for
// emission. Finalization never mutates its input; it produces a
// fresh FinalData.
package final

import (
	"sort"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/merge"
	"github.com/ava12/kllc/source"
)

// Config carries the knobs finalization needs that the spec leaves
// to the driver rather than fixing (spec §4.5 "pixel_display_map ...
// derived by bucketing x into columns by a configurable pitch and y
// into rows").
type Config struct {
	PixelPitchX float64
	PixelPitchY float64
	MaxPixel    uint32
}

// FinalLayer is one projected layer's trigger table: TriggerMacro
// index -> ResultMacro index, plus the per-scan-code trigger index
// (spec §4.5 "ScanCode -> trigger-list index").
type FinalLayer struct {
	Index         int
	Triggers      map[int]int
	ScanCodeIndex map[uint16][]int
}

// PixelMapping is one pixel's channel tuple, or a Blank marker if no
// result macro or animation frame ever gave it channel data (spec §8
// pixel-index-density invariant).
type PixelMapping struct {
	Index    uint32
	Blank    bool
	Channels []ast.PixelChannel
}

// ScanCodePosition is one scan code's resolved six-axis position.
type ScanCodePosition struct {
	Code     uint16
	Position ast.Position
}

// PixelPosition is one pixel's resolved six-axis position.
type PixelPosition struct {
	Index    uint32
	Position ast.Position
}

// FinalData is finalization's sole output: every table an emitter
// needs, already dense and deterministically ordered.
type FinalData struct {
	Layers        []FinalLayer
	TriggerMacros []ast.Sequence
	ResultMacros  []ast.Sequence
	Capabilities  []ast.Capability

	PixelMap        []PixelMapping
	PixelDisplayMap [][]uint32

	ScanCodePositions []ScanCodePosition
	PixelPositions    []PixelPosition

	Animations      map[string]*kctx.AnimationState
	AnimationFrames map[string]map[int][]ast.PixelId
}

// metaLess orders two Metas the way source.File.Less orders Files:
// by role precedence, then by PartialIndex within PartialMap, then by
// LoadOrder. Finalization needs this to traverse merged mappings in
// the deterministic "context order, then source line order" spec §4.5
// demands, since folding through Go maps during merge loses that
// order.
func metaLess(a, b ast.Meta) bool {
	pa, pb := a.Role.Precedence(), b.Role.Precedence()
	if pa != pb {
		return pa < pb
	}
	if a.Role == source.PartialMap && a.PartialIndex != b.PartialIndex {
		return a.PartialIndex < b.PartialIndex
	}
	return a.LoadOrder < b.LoadOrder
}

// Finalize projects mc into a FinalData. cfg's pixel pitch only
// matters if mc has any pixel positions; MaxPixel bounds PixelMap's
// density check and output length.
func Finalize(mc *merge.MergeContext, cfg Config) (*FinalData, []*kllc.Error, error) {
	var warnings []*kllc.Error

	triggerIndex := map[string]int{}
	resultIndex := map[string]int{}
	fd := &FinalData{
		Animations:      mc.Animations,
		AnimationFrames: make(map[string]map[int][]ast.PixelId, len(mc.Animations)),
	}
	for name, st := range mc.Animations {
		fd.AnimationFrames[name] = st.Frames
	}

	for _, capName := range sortedKeys(mc.Capabilities) {
		fd.Capabilities = append(fd.Capabilities, mc.Capabilities[capName])
	}

	for _, layer := range mc.Layers {
		resolved, layerWarnings, err := resolveLayerMappings(layer)
		warnings = append(warnings, layerWarnings...)
		if err != nil {
			return nil, warnings, err
		}

		fl := FinalLayer{Index: layer.Index, Triggers: map[int]int{}, ScanCodeIndex: map[uint16][]int{}}
		for _, rm := range resolved {
			ti := internTriggerMacro(fd, triggerIndex, rm.Trigger)
			ri := internResultMacro(fd, resultIndex, rm.Result)
			fl.Triggers[ti] = ri

			if sc, ok := rm.Trigger.FirstScanCode(); ok {
				fl.ScanCodeIndex[sc] = append(fl.ScanCodeIndex[sc], ti)
			}
		}
		fd.Layers = append(fd.Layers, fl)
	}

	fd.PixelPositions = finalizePixelPositions(mc.PixelPos)
	fd.ScanCodePositions = finalizeScanCodePositions(mc.ScanCodePos)
	fd.PixelMap = finalizePixelMap(mc, cfg.MaxPixel)
	fd.PixelDisplayMap = finalizePixelDisplayMap(fd.PixelPositions, cfg)

	return fd, warnings, nil
}

func internTriggerMacro(fd *FinalData, index map[string]int, seq ast.Sequence) int {
	key := seq.Canonical()
	if i, ok := index[key]; ok {
		return i
	}
	i := len(fd.TriggerMacros)
	fd.TriggerMacros = append(fd.TriggerMacros, seq)
	index[key] = i
	return i
}

func internResultMacro(fd *FinalData, index map[string]int, seq ast.Sequence) int {
	key := seq.Canonical()
	if i, ok := index[key]; ok {
		return i
	}
	i := len(fd.ResultMacros)
	fd.ResultMacros = append(fd.ResultMacros, seq)
	index[key] = i
	return i
}

func sortedKeys(m map[string]ast.Capability) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
