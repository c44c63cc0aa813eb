package kctx

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
)

// Error codes within kllc.SemanticErrors, one per distinct failure
// shape surfaced while folding expressions into a context (spec §4.3
// "Errors surfaced here").
const (
	errDuplicateCapability     = kllc.SemanticErrors + 1
	errDuplicateNameAssoc      = kllc.SemanticErrors + 2
	errRangeOverflow           = kllc.SemanticErrors + 3
	errHidCodeOutOfRange       = kllc.SemanticErrors + 4
	errScanCodeOutOfRange      = kllc.SemanticErrors + 5
	errDuplicateScheduleState  = kllc.SemanticErrors + 6
	errPixelIndexZero          = kllc.SemanticErrors + 7
	warnAnalogOnNonAnalog      = kllc.SemanticErrors + 8
	warnMappingEmptiedByRemove = kllc.SemanticErrors + 9
	warnMappingShadowed        = kllc.SemanticErrors + 10
)

func duplicateCapabilityError(m ast.Meta, name string) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errDuplicateCapability,
		"capability %q redeclared with a different signature", name)
}

func duplicateNameAssociationError(m ast.Meta, name string) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errDuplicateNameAssoc,
		"symbolic name %q redeclared with a different target", name)
}

func rangeOverflowError(m ast.Meta, low, high uint32) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errRangeOverflow,
		"range [0x%x-0x%x] is reversed or exceeds the legal code space", low, high)
}

func hidCodeOutOfRangeError(m ast.Meta, kind string, code uint32) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errHidCodeOutOfRange,
		"HID code 0x%x is out of range for %s", code, kind)
}

func scanCodeOutOfRangeError(m ast.Meta, code uint32) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errScanCodeOutOfRange,
		"scan code 0x%x is out of the legal range", code)
}

func duplicateScheduleStateError(m ast.Meta, state string) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errDuplicateScheduleState,
		"schedule binds state %s more than once", state)
}

func pixelIndexZeroError(m ast.Meta) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindSemantic, errPixelIndexZero,
		"pixel index 0 is reserved; pixel indices start at 1")
}

func analogOnNonAnalogWarning(m ast.Meta, code uint32) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindSemantic, warnAnalogOnNonAnalog,
		"scan code 0x%x carries an analog-value schedule but is not declared analog-capable", code)
}

func mappingEmptiedByRemoveWarning(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindSemantic, warnMappingEmptiedByRemove,
		"mapping %q has no results left after ':-'; the key is kept with an empty result set", key)
}

func mappingShadowedWarning(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindSemantic, warnMappingShadowed,
		"assignment to %q shadows an earlier mapping in the same context", key)
}

// metaPos adapts ast.Meta to kllc.SourcePos.
type metaPos struct{ m ast.Meta }

func (p metaPos) SourceName() string { return p.m.File }
func (p metaPos) Line() int          { return p.m.Line }
func (p metaPos) Col() int           { return p.m.Col }
