package kctx

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
)

// Legal code ranges per HID namespace (spec §3 invariants: "HID codes
// within 0..=0xFF for keyboard, with documented extended ranges for
// consumer/system"). Keyboard follows the USB HID keyboard/keypad
// usage page exactly; Consumer and System are given generous but
// bounded ranges covering the real USB HID Consumer Control and
// Generic Desktop usage pages used by firmware capability tables,
// rather than the full 16-bit usage-id space, so a garbled numeric
// literal is still caught here instead of silently round-tripping.
const (
	maxHidKeyboard  = 0xFF
	maxHidConsumer  = 0x3FF
	maxHidSystem    = 0xFF
	maxHidIndicator = 0xFF
	maxHidLocale    = 0xFF

	maxScanCode = 0xFFFF
)

func hidMax(kind ast.HidKind) uint32 {
	switch kind {
	case ast.HidKeyboard:
		return maxHidKeyboard
	case ast.HidConsumer:
		return maxHidConsumer
	case ast.HidSystem:
		return maxHidSystem
	case ast.HidIndicator:
		return maxHidIndicator
	case ast.HidLocale:
		return maxHidLocale
	default:
		return maxHidKeyboard
	}
}

func hidKindName(kind ast.HidKind) string {
	switch kind {
	case ast.HidKeyboard:
		return "keyboard"
	case ast.HidConsumer:
		return "consumer"
	case ast.HidSystem:
		return "system"
	case ast.HidIndicator:
		return "indicator"
	case ast.HidLocale:
		return "locale"
	default:
		return "hid"
	}
}

// validateId checks a concrete (non-range) Id against the legal code
// range for its kind (spec §3 invariants). Ids that carry no numeric
// code (capability calls, layer controls, strings, …) always pass.
func validateId(m ast.Meta, id ast.Id) error {
	switch v := id.(type) {
	case ast.HidId:
		if uint32(v.Code) > hidMax(v.HKind) {
			return hidCodeOutOfRangeError(m, hidKindName(v.HKind), uint32(v.Code))
		}
	case ast.ScanCodeId:
		if uint32(v.Code) > maxScanCode {
			return scanCodeOutOfRangeError(m, uint32(v.Code))
		}
	}
	return nil
}

// validateRange checks an unexpanded IdRange's bounds: it must not be
// reversed, and its high bound must fit the legal code space for its
// kind (spec §4.3 "arithmetic overflow on explicit integer ranges").
func validateRange(m ast.Meta, r ast.IdRange) error {
	if r.Low > r.High {
		return rangeOverflowError(m, r.Low, r.High)
	}
	max := uint32(maxScanCode)
	if r.Kind == ast.KindHid {
		max = hidMax(r.HKind)
	}
	if r.High > max {
		return rangeOverflowError(m, r.Low, r.High)
	}
	return nil
}

// validateSchedule checks a Schedule for a duplicate state binding
// (spec §3 invariants: "binding the same state twice is a user
// error").
func validateSchedule(m ast.Meta, sched *ast.Schedule) error {
	if state, dup := sched.DuplicateState(); dup {
		return duplicateScheduleStateError(m, state.String())
	}
	return nil
}

// analogWarning reports an analog-value schedule on a scan code that
// has no declared analog-capable capability bound to it (Open
// Question (c): semantic warning, not a hard error). analogScanCodes
// is the set of scan codes a capability declaration or data
// association has marked analog-capable in this context; callers
// that have not built one yet may pass a nil set, in which case every
// analog schedule warns.
func analogWarning(m ast.Meta, el ast.Element, analogScanCodes map[uint16]bool) *kllc.Error {
	if el.Schedule == nil {
		return nil
	}
	sc, ok := el.Id.(ast.ScanCodeId)
	if !ok {
		return nil
	}
	hasAnalog := false
	for _, p := range el.Schedule.Params {
		if p.HasAnalog {
			hasAnalog = true
			break
		}
	}
	if !hasAnalog {
		return nil
	}
	if analogScanCodes != nil && analogScanCodes[sc.Code] {
		return nil
	}
	return analogOnNonAnalogWarning(m, uint32(sc.Code))
}
