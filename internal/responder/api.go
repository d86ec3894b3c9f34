package responder

import (
	"maps"
	"slices"

	"github.com/ian97531/origin/internal/class"
)

// On registers cb for name on o. An empty name means Wildcard. Returns
// false if cb is nil or the (cb, ctx) pair is already registered for name.
func On(o *class.Object, name string, cb *Callback, ctx any) (bool, error) {
	return callBool(o, MemberOn, name, cb, ctx)
}

// Off removes registrations from o. Empty name, nil cb and nil ctx mean
// "absent":
//
//	name  cb   ctx  removes
//	 x    cb   -    cb under x, any context
//	 x    cb   c    (cb, c) under x
//	 x    -    c    every registration under x with context c
//	 x    -    -    the whole list for x
//	 -    cb   *    cb under every name (context must match when given)
//	 -    -    c    every registration with context c
//	 -    -    -    everything
//
// Returns true iff at least one registration was removed.
func Off(o *class.Object, name string, cb *Callback, ctx any) (bool, error) {
	return callBool(o, MemberOff, name, cb, ctx)
}

// BindTo registers cb on source and, if that succeeds, records the binding
// on listener for UnbindFromAll.
func BindTo(listener, source *class.Object, name string, cb *Callback, ctx any) (bool, error) {
	return callBool(listener, MemberBindTo, source, name, cb, ctx)
}

// UnbindFrom unregisters cb from source and drops the matching bindings
// from listener. Returns false when source removed nothing.
func UnbindFrom(listener, source *class.Object, name string, cb *Callback, ctx any) (bool, error) {
	return callBool(listener, MemberUnbindFrom, source, name, cb, ctx)
}

// UnbindFromAll undoes every binding recorded on listener. Always reports
// true; errors from the sources' off members are joined.
func UnbindFromAll(listener *class.Object) (bool, error) {
	_, err := listener.Call(MemberUnbindFromAll)
	return true, err
}

// Trigger dispatches an event named name with payload from o.
func Trigger(o *class.Object, name string, payload any) error {
	_, err := o.Call(MemberTrigger, name, payload)
	return err
}

// Repeat re-dispatches ev from o without changing its sender.
func Repeat(o *class.Object, ev Event) error {
	_, err := o.Call(MemberRepeat, ev)
	return err
}

// Count returns the number of registrations under name on o.
func Count(o *class.Object, name string) int {
	return len(stateOf(o).events[name])
}

// EventNames returns the names with at least one registration on o, sorted.
func EventNames(o *class.Object) []string {
	return slices.Sorted(maps.Keys(stateOf(o).events))
}

// BindingCount returns the number of bindings recorded on listener.
func BindingCount(listener *class.Object) int {
	return len(stateOf(listener).bindings)
}
