package class

import (
	"maps"
	"slices"
)

// Method is a callable instance member. self is the receiving object.
type Method func(self *Object, args ...any) (any, error)

// ClassMethod is a callable class-level member. c is the class it was
// invoked on, which may be a descendant of the class that defined it.
type ClassMethod func(c *Class, args ...any) (any, error)

// Initializer is a constructor function, run after the object is bound to
// its class.
type Initializer func(self *Object, args ...any) error

// asMethod accepts both the named Method type and an equivalent func literal.
func asMethod(v any) (Method, bool) {
	switch fn := v.(type) {
	case Method:
		return fn, fn != nil
	case func(*Object, ...any) (any, error):
		return fn, fn != nil
	default:
		return nil, false
	}
}

func asClassMethod(v any) (ClassMethod, bool) {
	switch fn := v.(type) {
	case ClassMethod:
		return fn, fn != nil
	case func(*Class, ...any) (any, error):
		return fn, fn != nil
	default:
		return nil, false
	}
}

// IsCallable reports whether v is an instance or class-level method.
func IsCallable(v any) bool {
	if _, ok := asMethod(v); ok {
		return true
	}
	_, ok := asClassMethod(v)
	return ok
}

// Members maps member names to data values or callables.
type Members map[string]any

// Options is the bundle accepted by Extend. Every field is optional.
type Options struct {
	// Name is a diagnostic label; it does not participate in identity.
	Name string

	// Initializer replaces the constructor. When nil the new class forwards
	// all constructor arguments to its parent's constructor.
	Initializer Initializer

	// Properties override the parent's instance template per name.
	Properties Members

	// ClassProperties override the parent's class-level members per name.
	ClassProperties Members
}

// Class is a composed class descriptor. The pointer is the class identity.
//
// INVARIANTS:
//   - template holds every ancestor instance member, most-derived winning
//   - statics holds every ancestor class-level member, most-derived winning
//   - nothing is mutated after Extend returns
type Class struct {
	id       string
	name     string
	parent   *Class
	depth    int
	init     Initializer
	own      Members
	template Members
	statics  Members
}

// Root is the base of every class tree. It has no members and a no-op
// constructor.
var Root = &Class{
	id:       "root",
	name:     "Root",
	init:     func(*Object, ...any) error { return nil },
	own:      Members{},
	template: Members{},
	statics:  Members{},
}

// Extend composes a new class from parent and opts. A nil parent means Root.
//
// Composition never modifies parent; sibling classes built from the same
// parent share nothing but the parent itself.
func Extend(parent *Class, opts Options) *Class {
	if parent == nil {
		parent = Root
	}

	own := maps.Clone(opts.Properties)
	if own == nil {
		own = Members{}
	}

	template := make(Members, len(parent.template)+len(own))
	maps.Copy(template, parent.template)
	maps.Copy(template, own)

	statics := make(Members, len(parent.statics)+len(opts.ClassProperties))
	maps.Copy(statics, parent.statics)
	maps.Copy(statics, opts.ClassProperties)

	init := opts.Initializer
	if init == nil {
		parentInit := parent.init
		init = func(self *Object, args ...any) error {
			return parentInit(self, args...)
		}
	}

	c := &Class{
		id:       nextID(),
		name:     opts.Name,
		parent:   parent,
		depth:    parent.depth + 1,
		init:     init,
		own:      own,
		template: template,
		statics:  statics,
	}

	logger().Debug("class composed",
		"class", c.label(),
		"id", c.id,
		"parent", parent.label(),
		"members", len(template),
		"statics", len(statics),
	)

	return c
}

// Extend composes a child of c. Equivalent to Extend(c, opts).
func (c *Class) Extend(opts Options) *Class {
	return Extend(c, opts)
}

// ID returns the opaque identity token stamped at composition time.
func (c *Class) ID() string {
	return c.id
}

// Name returns the diagnostic name given in Options, or "" if none was set.
func (c *Class) Name() string {
	return c.name
}

// String returns the name if set, else the identity token.
func (c *Class) String() string {
	return c.label()
}

func (c *Class) label() string {
	if c == nil {
		return "<nil>"
	}
	if c.name != "" {
		return c.name
	}
	return c.id
}

// Member returns the flattened instance template value for name.
func (c *Class) Member(name string) (any, bool) {
	v, ok := c.template[name]
	return v, ok
}

// Members returns a copy of the flattened instance template.
func (c *Class) Members() Members {
	return maps.Clone(c.template)
}

// OwnMembers returns a copy of the members defined at this level only.
func (c *Class) OwnMembers() Members {
	return maps.Clone(c.own)
}

// MemberNames returns the flattened template's member names, sorted.
func (c *Class) MemberNames() []string {
	return slices.Sorted(maps.Keys(c.template))
}

// Static returns the class-level member for name.
func (c *Class) Static(name string) (any, bool) {
	v, ok := c.statics[name]
	return v, ok
}

// Statics returns a copy of the flattened class-level members.
func (c *Class) Statics() Members {
	return maps.Clone(c.statics)
}

// CallStatic invokes a class-level ClassMethod with c as its receiver.
func (c *Class) CallStatic(name string, args ...any) (any, error) {
	v, ok := c.statics[name]
	if !ok {
		return nil, NewMissingMemberError(c, name)
	}
	fn, ok := asClassMethod(v)
	if !ok {
		return nil, NewNotCallableError(c, name, v)
	}
	return fn(c, args...)
}

// New creates an object of class c and runs the constructor with args.
//
// The object is bound to c before the constructor body runs, so the
// constructor already sees the full template and c as its class.
func (c *Class) New(args ...any) (*Object, error) {
	o := &Object{class: c}
	if err := c.init(o, args...); err != nil {
		return nil, err
	}
	return o, nil
}

// MustNew is New that panics on constructor failure.
func (c *Class) MustNew(args ...any) *Object {
	o, err := c.New(args...)
	if err != nil {
		panic(err)
	}
	return o
}

// Initialize runs c's resolved constructor against self. Overriding
// initializers use it to chain to an ancestor's constructor:
//
//	Initializer: func(self *class.Object, args ...any) error {
//	    if err := Base.Initialize(self, args...); err != nil {
//	        return err
//	    }
//	    self.Set("ready", true)
//	    return nil
//	}
func (c *Class) Initialize(self *Object, args ...any) error {
	return c.init(self, args...)
}
