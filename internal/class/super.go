package class

import (
	"maps"
	"slices"
)

// BoundMethod is an ancestor method with its receiver already bound.
type BoundMethod func(args ...any) (any, error)

// Shims is the super-dispatch view returned by Object.Parent: callables are
// BoundMethods, data members pass through unchanged.
type Shims map[string]any

// Get returns the shim for name.
func (s Shims) Get(name string) (any, bool) {
	v, ok := s[name]
	return v, ok
}

// Has reports whether name is present.
func (s Shims) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the shim names, sorted.
func (s Shims) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Call invokes the bound method name.
func (s Shims) Call(name string, args ...any) (any, error) {
	v, ok := s[name]
	if !ok {
		return nil, &Error{Code: ErrCodeMissingMember, Message: "no such member in super view", Member: name}
	}
	fn, ok := v.(BoundMethod)
	if !ok {
		return nil, &Error{Code: ErrCodeNotCallable, Message: "super view member is data", Member: name}
	}
	return fn(args...)
}

// Parent builds a super-dispatch view of ancestor for o.
//
// Every level from o's class up to and including ancestor is collected,
// then each level's own members are merged ancestor-first. For A -> B -> C
// where B overrides speak, an object of C sees B's speak through
// Parent(A). Methods in the view run with o as their receiver.
//
// A nil ancestor yields an empty view. An ancestor outside o's chain yields
// an ANCESTOR_NOT_FOUND error.
//
// The view is rebuilt on every call; its cost is O(depth x members).
func (o *Object) Parent(ancestor *Class) (Shims, error) {
	if ancestor == nil {
		return Shims{}, nil
	}

	var levels []*Class
	found := false
	for level := o.class; level != nil; level = level.parent {
		levels = append(levels, level)
		if level == ancestor {
			found = true
			break
		}
	}
	if !found {
		err := NewAncestorNotFoundError(o.class, ancestor)
		logger().Debug("super-dispatch failed", "class", o.class.label(), "ancestor", ancestor.label())
		return nil, err
	}

	shims := make(Shims)
	for i := len(levels) - 1; i >= 0; i-- {
		for name, member := range levels[i].own {
			shims[name] = o.bind(member)
		}
	}
	return shims, nil
}

// MustParent is Parent that panics on ANCESTOR_NOT_FOUND.
func (o *Object) MustParent(ancestor *Class) Shims {
	s, err := o.Parent(ancestor)
	if err != nil {
		panic(err)
	}
	return s
}

// CallAs invokes member name as resolved on class c (c's flattened
// template), with o as the receiver. c must be o's class or an ancestor.
//
// An override that needs its ancestor's original uses CallAs rather than
// Parent, since Parent's view includes the override itself:
//
//	inner, err := self.CallAs(Base, "render")
func (o *Object) CallAs(c *Class, name string, args ...any) (any, error) {
	if !o.class.InheritsFrom(c) {
		if c == nil {
			return nil, &Error{Code: ErrCodeAncestorNotFound, Message: "nil class", Class: o.class.label(), Member: name}
		}
		return nil, NewAncestorNotFoundError(o.class, c)
	}
	v, ok := c.template[name]
	if !ok {
		return nil, NewMissingMemberError(c, name)
	}
	fn, ok := asMethod(v)
	if !ok {
		return nil, NewNotCallableError(c, name, v)
	}
	return fn(o, args...)
}

func (o *Object) bind(member any) any {
	fn, ok := asMethod(member)
	if !ok {
		return member
	}
	return BoundMethod(func(args ...any) (any, error) {
		return fn(o, args...)
	})
}
