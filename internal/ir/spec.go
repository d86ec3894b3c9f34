package ir

// Built-in class names available as parents without a declaration.
const (
	RootClass      = "Root"
	ResponderClass = "Responder"
)

// ClassSpec is the declarative form of one class.
type ClassSpec struct {
	// Name labels the class and is the key other specs use as Parent.
	Name string `json:"name"`

	// Parent names the class this one extends. Empty means Root.
	Parent string `json:"parent,omitempty"`

	// Properties are instance template data members.
	Properties map[string]any `json:"properties,omitempty"`

	// ClassProperties are class-level data members.
	ClassProperties map[string]any `json:"class_properties,omitempty"`

	// Methods maps member names to behavior references, e.g.
	// "const:hello", "field:label", "super:Base.describe".
	Methods map[string]string `json:"methods,omitempty"`

	// Initializer is an optional constructor reference, e.g. "set:label=0"
	// or "super;set:label=0".
	Initializer string `json:"initializer,omitempty"`
}

// ParentName returns Parent, defaulting to RootClass.
func (s ClassSpec) ParentName() string {
	if s.Parent == "" {
		return RootClass
	}
	return s.Parent
}

// IsBuiltinClass reports whether name is provided without a declaration.
func IsBuiltinClass(name string) bool {
	return name == RootClass || name == ResponderClass
}
