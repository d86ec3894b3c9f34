package compiler

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ian97531/origin/internal/ir"
)

// Validation error codes (E100-E119)
const (
	// ClassSpec errors (E101-E109)
	ErrClassNameInvalid    = "E101" // name is empty or not an identifier
	ErrSelfParent          = "E102" // class names itself as parent
	ErrInvalidMemberName   = "E103" // member name is not an identifier
	ErrFloatValueForbidden = "E104" // float values not allowed
	ErrInvalidBehavior     = "E105" // unparseable method or initializer reference
	ErrBuiltinRedeclared   = "E106" // Root or Responder declared again
	ErrDuplicateClass      = "E107" // two declarations share a name

	// Hierarchy errors (E110-E119)
	ErrUnknownParent    = "E110" // parent is neither declared nor built-in
	ErrInheritanceCycle = "E111" // parent chain loops back
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Class   string `json:"class,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Class, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a single class spec. Returns all errors found (does not
// fail-fast), ordered by field.
func Validate(spec *ir.ClassSpec) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
			Class:   spec.Name,
		})
	}

	if !ir.ValidMemberName(spec.Name) {
		add("name", ErrClassNameInvalid, "class name %q must be a non-empty identifier", spec.Name)
	}
	if ir.IsBuiltinClass(spec.Name) {
		add("name", ErrBuiltinRedeclared, "%s is built in and cannot be redeclared", spec.Name)
	}
	if spec.Parent != "" && spec.Parent == spec.Name {
		add("parent", ErrSelfParent, "class cannot extend itself")
	}

	for _, group := range []struct {
		field   string
		members map[string]any
	}{
		{"properties", spec.Properties},
		{"class_properties", spec.ClassProperties},
	} {
		for _, name := range slices.Sorted(maps.Keys(group.members)) {
			field := group.field + "." + name
			if !ir.ValidMemberName(name) {
				add(field, ErrInvalidMemberName, "member name %q must be an identifier", name)
			}
			if path, ok := findFloat(group.members[name], field); ok {
				add(path, ErrFloatValueForbidden, "float values are not allowed, use an integer or string")
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(spec.Methods)) {
		field := "methods." + name
		if !ir.ValidMemberName(name) {
			add(field, ErrInvalidMemberName, "member name %q must be an identifier", name)
		}
		if _, ok := spec.Properties[name]; ok {
			add(field, ErrInvalidMemberName, "member %q declared as both property and method", name)
		}
		if _, err := ir.ParseBehavior(spec.Methods[name]); err != nil {
			add(field, ErrInvalidBehavior, "%v", err)
		}
	}

	if _, err := ir.ParseInitializer(spec.Initializer); err != nil {
		add("initializer", ErrInvalidBehavior, "%v", err)
	}
	return errs
}

// ValidateAll validates every spec, then checks names are unique and the
// hierarchy resolves.
func ValidateAll(specs []ir.ClassSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i := range specs {
		errs = append(errs, Validate(&specs[i])...)
		if seen[specs[i].Name] {
			errs = append(errs, ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("class %q declared more than once", specs[i].Name),
				Code:    ErrDuplicateClass,
				Class:   specs[i].Name,
			})
		}
		seen[specs[i].Name] = true
	}
	if _, herrs := ResolveHierarchy(specs); len(herrs) > 0 {
		errs = append(errs, herrs...)
	}
	return errs
}

func findFloat(v any, path string) (string, bool) {
	switch x := v.(type) {
	case float32, float64:
		return path, true
	case []any:
		for i, e := range x {
			if p, ok := findFloat(e, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(x)) {
			if p, ok := findFloat(x[k], path+"."+k); ok {
				return p, true
			}
		}
	}
	return "", false
}
