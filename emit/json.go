// Package emit implements the two output contracts the core itself
// owns (spec.md §6, SPEC_FULL.md §4.6 expansion): the stable JSON dump
// and the regenerated canonical .kll file. Both consume only a
// facade.Facade, never reaching into merge's or kctx's mutable stores
// directly, so an emitter can never observe anything beyond what
// spec.md §4.6 contracts.
package emit

import (
	"encoding/json"
	"sort"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/facade"
	"github.com/ava12/kllc/final"
)

// Versions are stamped into every JSON dump's kll_version/
// compiler_version fields (spec §6). KLLVersion names the language
// revision this compiler implements; CompilerVersion is this module's
// own release tag, overridable by a driver that embeds its own build
// metadata.
var (
	KLLVersion      = "0.5"
	CompilerVersion = "kllc-dev"
)

type jsonDoc struct {
	Variables           map[string]any         `json:"variables"`
	Capabilities        []jsonCapability        `json:"capabilities"`
	Layers              []jsonLayer              `json:"layers"`
	TriggerMacros       []jsonSequence           `json:"trigger_macros"`
	ResultMacros        []jsonSequence           `json:"result_macros"`
	PixelMapping        []jsonPixelMapping       `json:"pixel_mapping"`
	PixelDisplayMapping [][]uint32               `json:"pixel_display_mapping"`
	Animations          map[string]jsonAnimation `json:"animations"`
	ScanCodePositions   []jsonScanCodePosition   `json:"scancode_positions"`
	PixelPositions      []jsonPixelPosition      `json:"pixel_positions"`
	KLLVersion          string                   `json:"kll_version"`
	CompilerVersion     string                   `json:"compiler_version"`
}

type jsonLayer struct {
	Index    int         `json:"index"`
	Triggers map[int]int `json:"triggers"`
}

type jsonSequence struct {
	Combos [][]jsonElement `json:"combos"`
}

type jsonElement struct {
	Id       map[string]any `json:"id"`
	Schedule []jsonParam    `json:"schedule,omitempty"`
}

type jsonParam struct {
	State  string `json:"state,omitempty"`
	Timing string `json:"timing,omitempty"`
	Analog *uint8 `json:"analog,omitempty"`
}

type jsonCapability struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	ArgTypes []string `json:"arg_types"`
}

type jsonPixelMapping struct {
	Index    uint32             `json:"index"`
	Blank    bool               `json:"blank"`
	Channels []ast.PixelChannel `json:"channels,omitempty"`
}

type jsonPosition struct {
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
	Z  *float64 `json:"z,omitempty"`
	RX *float64 `json:"rx,omitempty"`
	RY *float64 `json:"ry,omitempty"`
	RZ *float64 `json:"rz,omitempty"`
}

type jsonScanCodePosition struct {
	Code     uint16       `json:"code"`
	Position jsonPosition `json:"position"`
}

type jsonPixelPosition struct {
	Index    uint32       `json:"index"`
	Position jsonPosition `json:"position"`
}

type jsonAnimation struct {
	Settings   map[string]any   `json:"settings"`
	AppendMode bool             `json:"append_mode"`
	Frames     map[int][]map[string]any `json:"frames"`
}

// JSON renders f as the stable object contracted by spec §6.
func JSON(f *facade.Facade) ([]byte, error) {
	doc := jsonDoc{
		Variables:           jsonVariables(f),
		Capabilities:        jsonCapabilities(f.Capabilities()),
		Layers:              jsonLayers(f.Layers()),
		TriggerMacros:       jsonSequences(f.TriggerMacros()),
		ResultMacros:        jsonSequences(f.ResultMacros()),
		PixelMapping:        jsonPixelMappings(f.PixelMap()),
		PixelDisplayMapping: f.PixelDisplayMap(),
		Animations:          jsonAnimations(f),
		ScanCodePositions:   jsonScanCodePositions(f.ScanCodePositions()),
		PixelPositions:      jsonPixelPositions(f.PixelPositions()),
		KLLVersion:          KLLVersion,
		CompilerVersion:     CompilerVersion,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func jsonVariables(f *facade.Facade) map[string]any {
	names := f.VariableNames()
	sort.Strings(names)
	out := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := f.Variable(name)
		if !ok {
			continue
		}
		if v.IsArray {
			arr := make([]any, len(v.Array))
			for i, val := range v.Array {
				arr[i] = jsonValue(val)
			}
			out[name] = arr
		} else {
			out[name] = jsonValue(v.Scalar)
		}
	}
	return out
}

func jsonValue(v ast.Value) any {
	switch v.Kind {
	case ast.ValueString:
		return v.Str
	case ast.ValueNumber:
		return v.Num.Value
	case ast.ValueId:
		if v.Id != nil {
			return idJSON(v.Id)
		}
	}
	return nil
}

func jsonCapabilities(caps []ast.Capability) []jsonCapability {
	out := make([]jsonCapability, len(caps))
	for i, c := range caps {
		types := make([]string, len(c.ArgTypes))
		for j, t := range c.ArgTypes {
			types[j] = capArgTypeName(t)
		}
		out[i] = jsonCapability{Name: c.Name, Symbol: c.Symbol, ArgTypes: types}
	}
	return out
}

func capArgTypeName(t ast.CapArgType) string {
	switch t {
	case ast.CapArgTypeInt:
		return "int"
	case ast.CapArgTypeString:
		return "string"
	case ast.CapArgTypeId:
		return "id"
	default:
		return "?"
	}
}

func jsonLayers(layers []final.FinalLayer) []jsonLayer {
	out := make([]jsonLayer, len(layers))
	for i, l := range layers {
		out[i] = jsonLayer{Index: l.Index, Triggers: l.Triggers}
	}
	return out
}

func jsonSequences(seqs []ast.Sequence) []jsonSequence {
	out := make([]jsonSequence, len(seqs))
	for i, s := range seqs {
		out[i] = jsonSequence{Combos: jsonCombos(s.Combos)}
	}
	return out
}

func jsonCombos(combos []ast.Combo) [][]jsonElement {
	out := make([][]jsonElement, len(combos))
	for i, c := range combos {
		elems := make([]jsonElement, len(c.Elements))
		for j, e := range c.Elements {
			elems[j] = jsonElementOf(e)
		}
		out[i] = elems
	}
	return out
}

func jsonElementOf(e ast.Element) jsonElement {
	je := jsonElement{}
	if e.Id != nil {
		// Finalization expands every ast.IdRange before a Sequence ever
		// reaches a trigger/result macro table (spec §4.5 "range
		// expansion is late"), so Element.Id is always set here.
		je.Id = idJSON(e.Id)
	}
	if e.Schedule != nil {
		je.Schedule = jsonSchedule(e.Schedule)
	}
	return je
}

func jsonSchedule(s *ast.Schedule) []jsonParam {
	out := make([]jsonParam, len(s.Params))
	for i, p := range s.Params {
		jp := jsonParam{}
		if p.HasState {
			jp.State = p.State.String()
		}
		if p.HasTiming {
			jp.Timing = p.Timing.String()
		}
		if p.HasAnalog {
			v := p.Analog
			jp.Analog = &v
		}
		out[i] = jp
	}
	return out
}

func idJSON(id ast.Id) map[string]any {
	m := map[string]any{"kind": id.IdKind().String()}
	switch v := id.(type) {
	case ast.HidId:
		m["code"] = v.Code
		m["hid_kind"] = hidKindName(v.HKind)
		if v.Symbol != "" {
			m["name"] = v.Symbol
		}
	case ast.ScanCodeId:
		m["code"] = v.Code
	case ast.PixelId:
		m["code"] = v.Index
		m["channels"] = v.Channels
	case ast.PixelLayerId:
		m["code"] = v.Index
	case ast.AnimationId:
		m["name"] = v.Name
	case ast.CapabilityId:
		m["name"] = v.Name
		m["args"] = v.Canonical()
	case ast.UsbCodeId:
		m["code"] = v.Code
	case ast.GenericTriggerId:
		m["name"] = v.Name
	case ast.NoneId:
		// no extra field: bare {"kind":"None"}
	case ast.UnicodeCodePointId:
		m["code"] = uint32(v.CodePoint)
	case ast.CharacterId:
		m["name"] = v.Char
	case ast.StringId:
		m["name"] = v.Value
	case ast.LayerId:
		m["code"] = v.Index
		m["name"] = v.LKind.String()
	}
	return m
}

func hidKindName(k ast.HidKind) string {
	switch k {
	case ast.HidKeyboard:
		return "Keyboard"
	case ast.HidConsumer:
		return "Consumer"
	case ast.HidSystem:
		return "System"
	case ast.HidIndicator:
		return "Indicator"
	case ast.HidLocale:
		return "Locale"
	default:
		return "?"
	}
}

func jsonPixelMappings(pm []final.PixelMapping) []jsonPixelMapping {
	out := make([]jsonPixelMapping, len(pm))
	for i, p := range pm {
		out[i] = jsonPixelMapping{Index: p.Index, Blank: p.Blank, Channels: p.Channels}
	}
	return out
}

func jsonPositionOf(p ast.Position) jsonPosition {
	return jsonPosition{X: p.X, Y: p.Y, Z: p.Z, RX: p.RX, RY: p.RY, RZ: p.RZ}
}

func jsonScanCodePositions(ps []final.ScanCodePosition) []jsonScanCodePosition {
	out := make([]jsonScanCodePosition, len(ps))
	for i, p := range ps {
		out[i] = jsonScanCodePosition{Code: p.Code, Position: jsonPositionOf(p.Position)}
	}
	return out
}

func jsonPixelPositions(ps []final.PixelPosition) []jsonPixelPosition {
	out := make([]jsonPixelPosition, len(ps))
	for i, p := range ps {
		out[i] = jsonPixelPosition{Index: p.Index, Position: jsonPositionOf(p.Position)}
	}
	return out
}

func jsonAnimations(f *facade.Facade) map[string]jsonAnimation {
	anims := f.Animations()
	frames := f.AnimationFrames()
	out := make(map[string]jsonAnimation, len(anims))
	for name, st := range anims {
		settings := make(map[string]any, len(st.Settings))
		for k, v := range st.Settings {
			settings[k] = jsonValue(v)
		}
		frameMap := make(map[int][]map[string]any, len(frames[name]))
		for idx, pixels := range frames[name] {
			ps := make([]map[string]any, len(pixels))
			for i, px := range pixels {
				ps[i] = idJSON(px)
			}
			frameMap[idx] = ps
		}
		out[name] = jsonAnimation{Settings: settings, AppendMode: st.AppendMode, Frames: frameMap}
	}
	return out
}
