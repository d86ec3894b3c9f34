package class

import (
	"maps"
	"slices"
)

// Object is an instance of a Class.
//
// The class link is fixed at construction. Fields assigned with Set shadow
// the class template for this object only.
type Object struct {
	class  *Class
	fields Members
}

// Class returns the exact class this object was constructed from, never a
// more general ancestor.
func (o *Object) Class() *Class {
	return o.class
}

// IsInstanceOf reports whether o's class is c or descends from c.
func (o *Object) IsInstanceOf(c *Class) bool {
	return o.class.InheritsFrom(c)
}

// Get returns the member named name: the object's own field if assigned,
// else the class template entry.
func (o *Object) Get(name string) (any, bool) {
	if v, ok := o.fields[name]; ok {
		return v, true
	}
	v, ok := o.class.template[name]
	return v, ok
}

// Set assigns a field on this object. It never affects the class or other
// objects.
func (o *Object) Set(name string, value any) {
	if o.fields == nil {
		o.fields = make(Members)
	}
	o.fields[name] = value
}

// Unset removes an assigned field, exposing the class template entry again.
func (o *Object) Unset(name string) {
	delete(o.fields, name)
}

// Fields returns a copy of the fields assigned on this object.
func (o *Object) Fields() Members {
	return maps.Clone(o.fields)
}

// Members returns the merged view of the class template and own fields.
func (o *Object) Members() Members {
	out := maps.Clone(o.class.template)
	maps.Copy(out, o.fields)
	return out
}

// MemberNames returns the names visible on this object, sorted.
func (o *Object) MemberNames() []string {
	return slices.Sorted(maps.Keys(o.Members()))
}

// Call invokes the Method member name with o as the receiver.
func (o *Object) Call(name string, args ...any) (any, error) {
	v, ok := o.Get(name)
	if !ok {
		return nil, NewMissingMemberError(o.class, name)
	}
	fn, ok := asMethod(v)
	if !ok {
		return nil, NewNotCallableError(o.class, name, v)
	}
	return fn(o, args...)
}
