package ir

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Behavior kinds for method references.
const (
	BehaviorConst  = "const"
	BehaviorField  = "field"
	BehaviorSuper  = "super"
	BehaviorParent = "parent"
	BehaviorCall   = "call"
	BehaviorStatic = "static"
)

// Initializer step kinds.
const (
	InitSuper = "super"
	InitSet   = "set"
)

var memberNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidMemberName reports whether name can be used as a member or class
// name in declarations.
func ValidMemberName(name string) bool {
	return memberNameRe.MatchString(name)
}

// Behavior is a parsed method reference.
//
//	const:<text>               returns text
//	field:<member>             returns self's member
//	super:<Ancestor>.<member>  calls member as the ancestor resolves it
//	parent:<Ancestor>.<member> calls member through the ancestor's super view
//	call:<member>              calls member on self
//	static:<member>            returns a class-level member of self's class
type Behavior struct {
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	Ancestor string `json:"ancestor,omitempty"`
	Member   string `json:"member,omitempty"`
}

// ParseBehavior parses a method reference string.
func ParseBehavior(ref string) (Behavior, error) {
	kind, arg, ok := strings.Cut(ref, ":")
	if !ok {
		return Behavior{}, fmt.Errorf("behavior %q: missing kind prefix", ref)
	}
	switch kind {
	case BehaviorConst:
		return Behavior{Kind: kind, Text: arg}, nil
	case BehaviorField, BehaviorCall, BehaviorStatic:
		if !ValidMemberName(arg) {
			return Behavior{}, fmt.Errorf("behavior %q: invalid member name %q", ref, arg)
		}
		return Behavior{Kind: kind, Member: arg}, nil
	case BehaviorSuper, BehaviorParent:
		ancestor, member, ok := strings.Cut(arg, ".")
		if !ok || !ValidMemberName(ancestor) || !ValidMemberName(member) {
			return Behavior{}, fmt.Errorf("behavior %q: want %s:<Ancestor>.<member>", ref, kind)
		}
		return Behavior{Kind: kind, Ancestor: ancestor, Member: member}, nil
	default:
		return Behavior{}, fmt.Errorf("behavior %q: unknown kind %q", ref, kind)
	}
}

// InitStep is one step of a parsed initializer reference.
type InitStep struct {
	Kind   string `json:"kind"`
	Member string `json:"member,omitempty"`
	Index  int    `json:"index,omitempty"`
}

// ParseInitializer parses a ";"-separated initializer reference such as
// "super;set:label=0". An empty reference yields no steps.
func ParseInitializer(ref string) ([]InitStep, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, nil
	}
	var steps []InitStep
	for _, part := range strings.Split(ref, ";") {
		part = strings.TrimSpace(part)
		if part == InitSuper {
			steps = append(steps, InitStep{Kind: InitSuper})
			continue
		}
		assign, ok := strings.CutPrefix(part, InitSet+":")
		if !ok {
			return nil, fmt.Errorf("initializer step %q: want super or set:<member>=<index>", part)
		}
		member, idx, ok := strings.Cut(assign, "=")
		if !ok || !ValidMemberName(member) {
			return nil, fmt.Errorf("initializer step %q: want set:<member>=<index>", part)
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("initializer step %q: index must be a non-negative integer", part)
		}
		steps = append(steps, InitStep{Kind: InitSet, Member: member, Index: n})
	}
	return steps, nil
}
