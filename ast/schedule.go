package ast

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleState is one of the eight activation states a ScheduleParam
// can bind (spec §3).
type ScheduleState int

const (
	StatePress ScheduleState = iota
	StateHold
	StateRelease
	StateOff
	StateUniquePress
	StateUniqueRelease
	StateDepress
	StateActivate
)

var stateNames = map[ScheduleState]string{
	StatePress:         "P",
	StateHold:          "H",
	StateRelease:       "R",
	StateOff:           "O",
	StateUniquePress:   "UP",
	StateUniqueRelease: "UR",
	StateDepress:       "D",
	StateActivate:      "A",
}

func (s ScheduleState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "?"
}

// ParseScheduleState maps a state token's text to its ScheduleState.
func ParseScheduleState(text string) (ScheduleState, bool) {
	for s, n := range stateNames {
		if n == text {
			return s, true
		}
	}
	return 0, false
}

// ScheduleParam is one element of a Schedule: a state (optionally with
// an analog value or a timing), a bare timing bound to the implicit
// state, or a bare analog value bound to the implicit state.
type ScheduleParam struct {
	HasState  bool
	State     ScheduleState
	HasTiming bool
	Timing    time.Duration
	HasAnalog bool
	Analog    uint8
}

func (p ScheduleParam) canonical() string {
	var b strings.Builder
	if p.HasState {
		b.WriteString(p.State.String())
		if p.HasTiming {
			b.WriteByte(':')
			b.WriteString(formatDuration(p.Timing))
		} else if p.HasAnalog {
			b.WriteByte(':')
			fmt.Fprintf(&b, "%d", p.Analog)
		}
	} else if p.HasTiming {
		b.WriteString(formatDuration(p.Timing))
	} else if p.HasAnalog {
		fmt.Fprintf(&b, "%d", p.Analog)
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", int64(d/time.Second))
	case d%time.Millisecond == 0:
		return fmt.Sprintf("%dms", int64(d/time.Millisecond))
	case d%time.Microsecond == 0:
		return fmt.Sprintf("%dus", int64(d/time.Microsecond))
	default:
		return fmt.Sprintf("%dns", int64(d))
	}
}

// Schedule is an ordered list of ScheduleParams attached to an id
// within a combo. A nil *Schedule means "any activation" (absent); a
// non-nil Schedule with zero Params means "press" implicitly (empty).
// This distinction is load-bearing (spec §3, §9) — never collapse a
// nil and an empty Schedule into the same representation.
type Schedule struct {
	Params []ScheduleParam
}

// Canonical renders the ordered param list; callers distinguish a nil
// *Schedule (absent) from an empty one before calling this.
func (s *Schedule) Canonical() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.canonical()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// DuplicateState reports the first state bound twice in s, if any —
// a user error per spec §3 invariants ("binding the same state twice
// is a user error").
func (s *Schedule) DuplicateState() (ScheduleState, bool) {
	if s == nil {
		return 0, false
	}
	seen := map[ScheduleState]bool{}
	for _, p := range s.Params {
		if !p.HasState {
			continue
		}
		if seen[p.State] {
			return p.State, true
		}
		seen[p.State] = true
	}
	return 0, false
}
