package responder

import "reflect"

// HandlerFunc receives a dispatched event. self is the context stored with
// the registration, or nil if none was given.
type HandlerFunc func(self any, ev Event) error

// Callback is a registrable handler. Callbacks are compared by identity:
// two Callbacks wrapping the same function are still different callbacks.
type Callback struct {
	name string
	fn   HandlerFunc
}

// NewCallback wraps fn in a new Callback.
func NewCallback(fn HandlerFunc) *Callback {
	return &Callback{fn: fn}
}

// NewNamedCallback wraps fn with a diagnostic name used in log records.
func NewNamedCallback(name string, fn HandlerFunc) *Callback {
	return &Callback{name: name, fn: fn}
}

// Name returns the diagnostic name, or "" if none was given.
func (c *Callback) Name() string {
	return c.name
}

func (c *Callback) invoke(self any, ev Event) error {
	if c.fn == nil {
		return nil
	}
	return c.fn(self, ev)
}

// sameContext compares two contexts by identity. Reference kinds compare by
// address, other comparable values with ==, and non-comparable values such
// as structs holding slices are never equal to anything but nil.
func sameContext(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Type().Comparable() {
		return false
	}
	return a == b
}
