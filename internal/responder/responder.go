package responder

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/ian97531/origin/internal/class"
)

// stateField is the object field holding a responder's registrations and
// bindings.
const stateField = "_responder"

// Member names installed on Class.
const (
	MemberOn            = "on"
	MemberOff           = "off"
	MemberBindTo        = "bindTo"
	MemberUnbindFrom    = "unbindFrom"
	MemberUnbindFromAll = "unbindFromAll"
	MemberTrigger       = "trigger"
	MemberRepeat        = "repeat"
)

// pkgLogger is the package-wide logger used for dispatch diagnostics.
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger overrides the package logger. Nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Class is the Responder class. Extend it to build classes that publish or
// listen to events.
var Class = class.Root.Extend(class.Options{
	Name: "Responder",
	Initializer: func(self *class.Object, args ...any) error {
		stateOf(self)
		return nil
	},
	Properties: class.Members{
		MemberOn:            class.Method(on),
		MemberOff:           class.Method(off),
		MemberBindTo:        class.Method(bindTo),
		MemberUnbindFrom:    class.Method(unbindFrom),
		MemberUnbindFromAll: class.Method(unbindFromAll),
		MemberTrigger:       class.Method(trigger),
		MemberRepeat:        class.Method(repeat),
	},
})

// state is the per-object registry. It is owned by exactly one object.
type state struct {
	events   map[string][]*registration
	bindings []binding
}

// stateOf returns o's registry, creating it on first use so subclasses that
// replace the initializer without chaining still work.
func stateOf(o *class.Object) *state {
	if v, ok := o.Get(stateField); ok {
		if s, ok := v.(*state); ok {
			return s
		}
	}
	s := &state{events: make(map[string][]*registration)}
	o.Set(stateField, s)
	return s
}

func on(self *class.Object, args ...any) (any, error) {
	name, err := stringArg(MemberOn, args, 0)
	if err != nil {
		return false, err
	}
	cb, err := callbackArg(MemberOn, args, 1)
	if err != nil {
		return false, err
	}
	if cb == nil {
		return false, nil
	}
	ctx := optionalArg(args, 2)
	if name == "" {
		name = Wildcard
	}

	s := stateOf(self)
	for _, r := range s.events[name] {
		if r.matches(cb, ctx) {
			return false, nil
		}
	}
	s.events[name] = append(s.events[name], &registration{callback: cb, context: ctx})
	return true, nil
}

func off(self *class.Object, args ...any) (any, error) {
	name, err := stringArg(MemberOff, args, 0)
	if err != nil {
		return false, err
	}
	cb, err := callbackArg(MemberOff, args, 1)
	if err != nil {
		return false, err
	}
	ctx := optionalArg(args, 2)

	s := stateOf(self)

	// Full clear.
	if name == "" && cb == nil && ctx == nil {
		existed := len(s.events) > 0
		s.events = make(map[string][]*registration)
		return existed, nil
	}

	// Named list drop.
	if name != "" && cb == nil && ctx == nil {
		existed := len(s.events[name]) > 0
		delete(s.events, name)
		return existed, nil
	}

	keep := func(r *registration) bool {
		if cb != nil && r.callback != cb {
			return true
		}
		if ctx != nil && !sameContext(r.context, ctx) {
			return true
		}
		return false
	}

	names := []string{name}
	if name == "" {
		names = slices.Collect(maps.Keys(s.events))
	}

	removed := false
	for _, n := range names {
		list, ok := s.events[n]
		if !ok {
			continue
		}
		kept := slices.DeleteFunc(slices.Clone(list), func(r *registration) bool { return !keep(r) })
		if len(kept) != len(list) {
			removed = true
		}
		if len(kept) == 0 {
			delete(s.events, n)
		} else {
			s.events[n] = kept
		}
	}
	return removed, nil
}

func bindTo(self *class.Object, args ...any) (any, error) {
	source, err := objectArg(MemberBindTo, args, 0)
	if err != nil || source == nil {
		return false, err
	}
	rest := append([]any(nil), args[1:]...)
	name, err := stringArg(MemberBindTo, rest, 0)
	if err != nil {
		return false, err
	}
	cb, err := callbackArg(MemberBindTo, rest, 1)
	if err != nil {
		return false, err
	}
	ctx := optionalArg(rest, 2)

	added, err := callBool(source, MemberOn, name, cb, ctx)
	if err != nil || !added {
		return false, err
	}
	s := stateOf(self)
	s.bindings = append(s.bindings, binding{source: source, name: name, callback: cb, context: ctx})
	return true, nil
}

func unbindFrom(self *class.Object, args ...any) (any, error) {
	source, err := objectArg(MemberUnbindFrom, args, 0)
	if err != nil || source == nil {
		return false, err
	}
	rest := append([]any(nil), args[1:]...)
	name, err := stringArg(MemberUnbindFrom, rest, 0)
	if err != nil {
		return false, err
	}
	cb, err := callbackArg(MemberUnbindFrom, rest, 1)
	if err != nil {
		return false, err
	}
	ctx := optionalArg(rest, 2)

	removed, err := callBool(source, MemberOff, name, cb, ctx)
	if err != nil || !removed {
		return false, err
	}
	s := stateOf(self)
	s.bindings = slices.DeleteFunc(s.bindings, func(b binding) bool {
		return b.matches(source, name, cb, ctx)
	})
	return true, nil
}

func unbindFromAll(self *class.Object, args ...any) (any, error) {
	s := stateOf(self)
	var errs []error
	for _, b := range s.bindings {
		if _, err := b.source.Call(MemberOff, b.name, b.callback, b.context); err != nil {
			errs = append(errs, err)
		}
	}
	s.bindings = nil
	return true, errors.Join(errs...)
}

func trigger(self *class.Object, args ...any) (any, error) {
	name, err := stringArg(MemberTrigger, args, 0)
	if err != nil {
		return nil, err
	}
	ev := Event{Sender: self, Name: name, Payload: optionalArg(args, 1)}
	return self.Call(MemberRepeat, ev)
}

func repeat(self *class.Object, args ...any) (any, error) {
	ev, ok := optionalArg(args, 0).(Event)
	if !ok {
		return nil, class.NewBadArgumentError(MemberRepeat, 0, "responder.Event", optionalArg(args, 0))
	}

	s := stateOf(self)
	targets := slices.Clone(s.events[ev.Name])
	if ev.Name != Wildcard {
		for _, r := range s.events[Wildcard] {
			if !slices.Contains(targets, r) {
				targets = append(targets, r)
			}
		}
	}

	logger().Debug("dispatching event",
		"class", self.Class().String(),
		"event", ev.Name,
		"callbacks", len(targets),
	)

	for _, r := range targets {
		if err := r.callback.invoke(r.context, ev); err != nil {
			logger().Debug("callback failed", "event", ev.Name, "callback", r.callback.Name(), "error", err)
			return nil, err
		}
	}
	return nil, nil
}

func optionalArg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func stringArg(member string, args []any, i int) (string, error) {
	switch v := optionalArg(args, i).(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", class.NewBadArgumentError(member, i, "event name string", v)
	}
}

func callbackArg(member string, args []any, i int) (*Callback, error) {
	switch v := optionalArg(args, i).(type) {
	case nil:
		return nil, nil
	case *Callback:
		return v, nil
	default:
		return nil, class.NewBadArgumentError(member, i, "*responder.Callback", v)
	}
}

func objectArg(member string, args []any, i int) (*class.Object, error) {
	switch v := optionalArg(args, i).(type) {
	case nil:
		return nil, nil
	case *class.Object:
		return v, nil
	default:
		return nil, class.NewBadArgumentError(member, i, "*class.Object", v)
	}
}

func callBool(o *class.Object, member string, args ...any) (bool, error) {
	out, err := o.Call(member, args...)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%s returned %T, want bool", member, out)
	}
	return b, nil
}
