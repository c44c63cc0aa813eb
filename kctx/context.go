// Package kctx implements the per-context organization of spec §4.3:
// one Context per role (plus PartialMap index) classifies every
// parsed ast.Expression into one of six typed stores and resolves
// same-key overrides within that single context. Cross-context
// folding is package merge's job; a Context never looks outside
// itself.
package kctx

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/source"
)

// Context is one role's (role, PartialIndex) bucket of expressions,
// already resolved to their intra-context final state (spec §3
// "A context is {role, ordered list of files, expression stores}").
type Context struct {
	Role         source.Role
	PartialIndex int

	Variables    *VariableStore
	Capabilities *CapabilityStore
	Names        *NameStore
	Mappings     *MappingStore
	PixelPos     *PositionStore[uint32]
	ScanCodePos  *PositionStore[uint16]
	Animations   *AnimationStore
}

// New creates an empty Context for the given role/partial index.
func New(role source.Role, partialIndex int) *Context {
	return &Context{
		Role:         role,
		PartialIndex: partialIndex,
		Variables:    newVariableStore(),
		Capabilities: newCapabilityStore(),
		Names:        newNameStore(),
		Mappings:     newMappingStore(),
		PixelPos:     newPositionStore[uint32](),
		ScanCodePos:  newPositionStore[uint16](),
		Animations:   newAnimationStore(),
	}
}

// Add classifies and applies one expression, in the order the caller
// supplies it — callers must feed expressions in deterministic
// file/load order (source.File.Less) for last-writer-wins and
// array-patch semantics to resolve correctly. Returns any non-fatal
// warnings produced along the way (Open Question (a)/(c)) and the
// first fatal error, if any.
func (c *Context) Add(expr ast.Expression) (warnings []*kllc.Error, err error) {
	switch e := expr.(type) {
	case ast.Assignment:
		c.Variables.Add(e)
		return nil, nil

	case ast.Capability:
		if err := c.Capabilities.Add(e); err != nil {
			return nil, err
		}
		return nil, nil

	case ast.NameAssociation:
		if err := c.Names.AddAssociation(e); err != nil {
			return nil, err
		}
		return nil, nil

	case ast.Define:
		if err := c.Names.AddDefine(e); err != nil {
			return nil, err
		}
		return nil, nil

	case ast.Mapping:
		return c.addMapping(e)

	case ast.DataAssociation:
		c.addDataAssociation(e)
		return nil, nil

	case ast.AnimationDefinition:
		c.Animations.AddDefinition(e)
		return nil, nil

	case ast.AnimationFrame:
		c.Animations.AddFrame(e)
		return nil, nil
	}

	return nil, kllc.InternalError("", "kctx: unhandled expression type %T", expr)
}

func (c *Context) addDataAssociation(d ast.DataAssociation) {
	switch d.Target {
	case ast.TargetPixel:
		c.PixelPos.Add(d.PixelIndex, d.Position)
	case ast.TargetScanCode:
		c.ScanCodePos.Add(d.ScanCode, d.Position)
	}
}

func (c *Context) addMapping(m ast.Mapping) (warnings []*kllc.Error, err error) {
	for _, combo := range m.Trigger.Combos {
		for _, el := range combo.Elements {
			if w, verr := c.validateElement(m.M, el); verr != nil {
				return warnings, verr
			} else if w != nil {
				warnings = append(warnings, w)
			}
		}
	}
	for _, combo := range m.Result.Combos {
		for _, el := range combo.Elements {
			if _, verr := c.validateElement(m.M, el); verr != nil {
				return warnings, verr
			}
		}
	}

	warn, addErr := c.Mappings.Add(m)
	if addErr != nil {
		return warnings, addErr
	}
	if warn != nil {
		warnings = append(warnings, warn)
	}
	return warnings, nil
}

// validateElement checks one Element's id/range and schedule, and
// produces the analog-on-non-analog-scancode warning of Open Question
// (c). This Context has no independent source of which scan codes are
// analog-capable, so every analog schedule on a plain scan code warns
// (a conservative, documented simplification — see DESIGN.md).
func (c *Context) validateElement(m ast.Meta, el ast.Element) (*kllc.Error, error) {
	if el.Range != nil {
		if err := validateRange(m, *el.Range); err != nil {
			return nil, err
		}
	} else if el.Id != nil {
		if err := validateId(m, el.Id); err != nil {
			return nil, err
		}
	}
	if el.Schedule != nil {
		if err := validateSchedule(m, el.Schedule); err != nil {
			return nil, err
		}
	}
	return analogWarning(m, el, nil), nil
}
