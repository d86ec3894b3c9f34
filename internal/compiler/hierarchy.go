package compiler

import (
	"fmt"
	"strings"

	"github.com/ian97531/origin/internal/ir"
)

// ResolveHierarchy orders specs so every class follows its parent.
//
// Parents must be declared in specs or be one of the built-in classes.
// Unknown parents are reported with E110 and inheritance cycles with E111.
// Classes that fail, and their descendants, are left out of the order.
// Otherwise declaration order is kept.
func ResolveHierarchy(specs []ir.ClassSpec) ([]ir.ClassSpec, []ValidationError) {
	var errs []ValidationError
	byName := make(map[string]int, len(specs))
	for i, s := range specs {
		if _, dup := byName[s.Name]; !dup {
			byName[s.Name] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
		failed
	)
	state := make([]int, len(specs))

	var ordered []ir.ClassSpec
	var visit func(i int, path []string) bool
	visit = func(i int, path []string) bool {
		switch state[i] {
		case done:
			return true
		case failed:
			return false
		case visiting:
			start := 0
			for j, name := range path {
				if name == specs[i].Name {
					start = j
				}
			}
			cycle := append(append([]string(nil), path[start:]...), specs[i].Name)
			errs = append(errs, ValidationError{
				Field:   "parent",
				Message: "inheritance cycle: " + strings.Join(cycle, " -> "),
				Code:    ErrInheritanceCycle,
				Class:   specs[i].Name,
			})
			return false
		}

		state[i] = visiting
		spec := specs[i]
		parent := spec.ParentName()
		ok := true
		if pi, declared := byName[parent]; declared && pi != i {
			ok = visit(pi, append(path, spec.Name))
		} else if parent == spec.Name {
			ok = false
		} else if !declared && !ir.IsBuiltinClass(parent) {
			errs = append(errs, ValidationError{
				Field:   "parent",
				Message: fmt.Sprintf("unknown parent class %q", parent),
				Code:    ErrUnknownParent,
				Class:   spec.Name,
			})
			ok = false
		}

		if !ok {
			state[i] = failed
			return false
		}
		state[i] = done
		ordered = append(ordered, spec)
		return true
	}

	for i := range specs {
		if byName[specs[i].Name] != i {
			continue
		}
		visit(i, nil)
	}
	return ordered, errs
}
