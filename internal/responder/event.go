package responder

import "github.com/ian97531/origin/internal/class"

// Wildcard is the event name whose callbacks receive every event.
const Wildcard = "all"

// Event is the record passed to callbacks. It is a value type, so every
// callback receives its own shallow copy; Payload itself is shared.
type Event struct {
	Sender  *class.Object
	Name    string
	Payload any
}

// registration is one {callback, context} entry under an event name.
type registration struct {
	callback *Callback
	context  any
}

func (r *registration) matches(cb *Callback, ctx any) bool {
	return r.callback == cb && sameContext(r.context, ctx)
}

// binding is a listener-side record of a successful BindTo.
type binding struct {
	source   *class.Object
	name     string
	callback *Callback
	context  any
}

// matches reports whether an unbindFrom(source, name, cb, ctx) covers b.
// Empty name, nil cb and nil ctx match anything.
func (b binding) matches(source *class.Object, name string, cb *Callback, ctx any) bool {
	return b.source == source &&
		(name == "" || b.name == name) &&
		(cb == nil || b.callback == cb) &&
		(ctx == nil || sameContext(b.context, ctx))
}
