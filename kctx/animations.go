package kctx

import "github.com/ava12/kllc/ast"

// AnimationState is one context's accumulated view of a named
// animation: its settings (folded field-by-field) and its pixel
// frames, keyed by frame index. Cross-context combination of two
// AnimationStates (wholesale replace vs. append) is package merge's
// job (spec §4.4); within one context, a later definition simply
// overrides the settings fields it mentions, and a later frame at a
// given index replaces that index's pixels.
type AnimationState struct {
	Name       string
	Settings   map[string]ast.Value
	AppendMode bool
	Frames     map[int][]ast.PixelId
}

// AnimationStore holds one context's named animations.
type AnimationStore struct {
	entries map[string]*AnimationState
}

func newAnimationStore() *AnimationStore {
	return &AnimationStore{entries: map[string]*AnimationState{}}
}

func (s *AnimationStore) state(name string) *AnimationState {
	st, ok := s.entries[name]
	if !ok {
		st = &AnimationState{Name: name, Settings: map[string]ast.Value{}, Frames: map[int][]ast.PixelId{}}
		s.entries[name] = st
	}
	return st
}

func (s *AnimationStore) AddDefinition(d ast.AnimationDefinition) {
	st := s.state(d.Name)
	for k, v := range d.Settings {
		st.Settings[k] = v
	}
	st.AppendMode = d.AppendMode
}

func (s *AnimationStore) AddFrame(f ast.AnimationFrame) {
	st := s.state(f.Name)
	st.Frames[f.FrameIndex] = f.Pixels
}

func (s *AnimationStore) Get(name string) (*AnimationState, bool) {
	st, ok := s.entries[name]
	return st, ok
}

func (s *AnimationStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
