package ast

import "fmt"

// VariableKey returns the store key for a variable assignment: the
// variable name, plus its array index when present (spec §3 stores
// table: "variable name (+ array index if any)").
func VariableKey(name string, index *int) string {
	if index == nil {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, *index)
}
