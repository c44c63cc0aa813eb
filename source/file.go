package source

// Role identifies which of the KLL file roles a File belongs to.
// Precedence during cross-context merge is defined by Role.Precedence,
// low to high: Generic < Configuration < BaseMap < DefaultMap <
// PartialMap (ordered by its Index) < Merge.
type Role int

const (
	Generic Role = iota
	Configuration
	BaseMap
	DefaultMap
	PartialMap
	Merge
)

func (r Role) String() string {
	switch r {
	case Generic:
		return "Generic"
	case Configuration:
		return "Configuration"
	case BaseMap:
		return "BaseMap"
	case DefaultMap:
		return "DefaultMap"
	case PartialMap:
		return "PartialMap"
	case Merge:
		return "Merge"
	default:
		return "Unknown"
	}
}

// Precedence returns this role's rank in the fixed merge fold order.
// PartialMap's rank additionally depends on its Index, so it is not
// meaningful to compare two PartialMap Files by Role.Precedence alone —
// use File.Less instead.
func (r Role) Precedence() int {
	switch r {
	case Generic:
		return 0
	case Configuration:
		return 1
	case BaseMap:
		return 2
	case DefaultMap:
		return 3
	case PartialMap:
		return 4
	case Merge:
		return 6
	default:
		return -1
	}
}

// File is a role-tagged, load-ordered in-memory source record — the
// output of the File stage (spec §2 step 1).
type File struct {
	Source     *Source
	Role       Role
	// PartialIndex is the N in PartialMap_N; meaningless for other roles.
	PartialIndex int
	// LoadOrder is this file's position within its role+PartialIndex
	// group, in the order the driver supplied it.
	LoadOrder int
}

// NewFile wraps source text with its role and load order.
func NewFile(name string, content []byte, role Role, partialIndex, loadOrder int) *File {
	return &File{
		Source:       New(name, content),
		Role:         role,
		PartialIndex: partialIndex,
		LoadOrder:    loadOrder,
	}
}

// Less orders files for deterministic traversal: by role precedence,
// then by PartialIndex within PartialMap, then by LoadOrder.
func (f *File) Less(other *File) bool {
	pf, po := f.Role.Precedence(), other.Role.Precedence()
	if pf != po {
		return pf < po
	}
	if f.Role == PartialMap && f.PartialIndex != other.PartialIndex {
		return f.PartialIndex < other.PartialIndex
	}
	return f.LoadOrder < other.LoadOrder
}
