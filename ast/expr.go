package ast

import "github.com/ava12/kllc/source"

// ExprKind discriminates the Expression variants of spec §3.
type ExprKind int

const (
	ExprAssignment ExprKind = iota
	ExprMapping
	ExprDataAssociation
	ExprCapability
	ExprAnimationDefinition
	ExprAnimationFrame
	ExprNameAssociation
	ExprDefine
)

// Meta carries the source file, line, and role every expression needs
// for diagnostics and for role-aware organization (spec §3:
// "Every expression carries its source file and line, a role tag").
type Meta struct {
	File string
	Line int
	Col  int
	Role source.Role
	// PartialIndex is meaningful only when Role == source.PartialMap.
	PartialIndex int
	// LoadOrder disambiguates expressions from the same file/role for
	// deterministic last-writer-wins and finalization traversal order.
	LoadOrder int
}

func (m Meta) SourceName() string { return m.File }
func (m Meta) Line_() int         { return m.Line }
func (m Meta) Col_() int          { return m.Col }

// Expression is satisfied by every expression variant.
type Expression interface {
	ExprKind() ExprKind
	Meta() Meta
}

// Rebase returns expr with its Meta.LoadOrder shifted by delta,
// leaving every other field untouched. Package parse numbers each
// file's expressions from zero; a driver compiling several files into
// one role/partial-index group uses Rebase to turn those per-file
// ordinals into one role-wide monotonic sequence, which is what
// finalization's "context order, then source line order" deterministic
// traversal (spec §4.5, §8) actually needs.
func Rebase(expr Expression, delta int) Expression {
	switch e := expr.(type) {
	case Assignment:
		e.M.LoadOrder += delta
		return e
	case Mapping:
		e.M.LoadOrder += delta
		return e
	case DataAssociation:
		e.M.LoadOrder += delta
		return e
	case Capability:
		e.M.LoadOrder += delta
		return e
	case AnimationDefinition:
		e.M.LoadOrder += delta
		return e
	case AnimationFrame:
		e.M.LoadOrder += delta
		return e
	case NameAssociation:
		e.M.LoadOrder += delta
		return e
	case Define:
		e.M.LoadOrder += delta
		return e
	default:
		return expr
	}
}

// AssignSubKind discriminates an Assignment's left-hand-side shape.
type AssignSubKind int

const (
	AssignScalar AssignSubKind = iota
	AssignArrayElement
	AssignArrayWhole
	AssignDataCharacter
)

// Assignment is `name = value;`, `name[i] = value;`, `name[] = a,b,c;`,
// or a character-capability data association.
type Assignment struct {
	M       Meta
	SubKind AssignSubKind
	Name    string
	Index   *int
	Values  []Value
}

func (a Assignment) ExprKind() ExprKind { return ExprAssignment }
func (a Assignment) Meta() Meta         { return a.M }

// MapOp is the operator of a Mapping (spec §3).
type MapOp int

const (
	OpMapsTo MapOp = iota
	OpAddTo
	OpRemoveFrom
	OpIsolate
	OpReplace
	OpIndicatorMapsTo
	OpIndicatorAddTo
	OpIndicatorRemoveFrom
	OpIndicatorIsolate
)

func (op MapOp) String() string {
	switch op {
	case OpMapsTo:
		return ":"
	case OpAddTo:
		return ":+"
	case OpRemoveFrom:
		return ":-"
	case OpIsolate:
		return "::"
	case OpReplace:
		return "="
	case OpIndicatorMapsTo:
		return "i:"
	case OpIndicatorAddTo:
		return "i:+"
	case OpIndicatorRemoveFrom:
		return "i:-"
	case OpIndicatorIsolate:
		return "i::"
	default:
		return "?"
	}
}

// IsIndicator reports whether op belongs to the indicator-map family.
func (op MapOp) IsIndicator() bool {
	return op >= OpIndicatorMapsTo
}

// Mapping is `trigger OP result;`.
type Mapping struct {
	M       Meta
	Op      MapOp
	Trigger Sequence
	Result  Sequence
}

func (m Mapping) ExprKind() ExprKind { return ExprMapping }
func (m Mapping) Meta() Meta         { return m.M }

// PositionTargetKind discriminates a DataAssociation's target.
type PositionTargetKind int

const (
	TargetPixel PositionTargetKind = iota
	TargetScanCode
)

// DataAssociation binds a pixel or scan code to a partial physical
// position.
type DataAssociation struct {
	M          Meta
	Target     PositionTargetKind
	PixelIndex uint32
	ScanCode   uint16
	Position   Position
}

func (d DataAssociation) ExprKind() ExprKind { return ExprDataAssociation }
func (d DataAssociation) Meta() Meta         { return d.M }

// CapArgType declares one argument's type in a Capability declaration.
type CapArgType int

const (
	CapArgTypeInt CapArgType = iota
	CapArgTypeString
	CapArgTypeId
)

// Capability declares a named capability with a C-level symbol and a
// typed argument list.
type Capability struct {
	M        Meta
	Name     string
	Symbol   string
	ArgTypes []CapArgType
}

func (c Capability) ExprKind() ExprKind { return ExprCapability }
func (c Capability) Meta() Meta         { return c.M }

// AnimationDefinition declares settings for a named animation.
type AnimationDefinition struct {
	M          Meta
	Name       string
	Settings   map[string]Value
	AppendMode bool
}

func (a AnimationDefinition) ExprKind() ExprKind { return ExprAnimationDefinition }
func (a AnimationDefinition) Meta() Meta         { return a.M }

// AnimationFrame is one pixel-frame byte sequence of a named animation.
type AnimationFrame struct {
	M          Meta
	Name       string
	FrameIndex int
	Pixels     []PixelId
}

func (a AnimationFrame) ExprKind() ExprKind { return ExprAnimationFrame }
func (a AnimationFrame) Meta() Meta         { return a.M }

// NameAssociation binds a symbolic name to a C identifier.
type NameAssociation struct {
	M      Meta
	Name   string
	Symbol string
}

func (n NameAssociation) ExprKind() ExprKind { return ExprNameAssociation }
func (n NameAssociation) Meta() Meta         { return n.M }

// Define binds a preprocessor-style symbolic constant to a C identifier.
type Define struct {
	M      Meta
	Name   string
	Symbol string
}

func (d Define) ExprKind() ExprKind { return ExprDefine }
func (d Define) Meta() Meta         { return d.M }
