package engine

import (
	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/ir"
	"github.com/ian97531/origin/internal/responder"
)

// listenKey identifies one engine-managed subscription.
type listenKey struct {
	listener string
	source   string
	event    string
}

// Listen subscribes listener to event on source through the listener's
// bindTo member. An empty event listens to every event.
//
// Each dispatch is recorded in the trace. When react names a member, the
// listener calls it with the event payload and the result is recorded as
// the dispatch value; a failing reaction stops the dispatch.
//
// Returns false if the same subscription already exists.
func (e *Engine) Listen(listener, source, event, react string) (bool, error) {
	lo, err := e.Object(listener)
	if err != nil {
		return false, err
	}
	so, err := e.Object(source)
	if err != nil {
		return false, err
	}
	k := listenKey{listener: listener, source: source, event: event}
	if _, exists := e.listeners[k]; exists {
		return false, nil
	}

	cb := responder.NewNamedCallback(listener+"<-"+source, func(_ any, ev responder.Event) error {
		return e.dispatch(listener, lo, react, ev)
	})
	idx := e.begin(ir.TraceEvent{Type: ir.TraceBind, Object: source, Listener: listener, Event: event, Member: react})
	added, err := responder.BindTo(lo, so, event, cb, lo)
	if err != nil {
		e.fail(idx, err)
		return false, err
	}
	if added {
		e.listeners[k] = cb
	}
	e.trace[idx].Value = added
	return added, nil
}

func (e *Engine) dispatch(listener string, lo *class.Object, react string, ev responder.Event) error {
	idx := e.begin(ir.TraceEvent{
		Type:     ir.TraceDispatch,
		Listener: listener,
		Event:    ev.Name,
		Sender:   e.keyOf(ev.Sender),
		Payload:  e.Canonical(ev.Payload),
		Member:   react,
	})
	if react == "" {
		return nil
	}
	out, err := lo.Call(react, ev.Payload)
	if err != nil {
		e.fail(idx, err)
		return err
	}
	e.trace[idx].Value = e.Canonical(out)
	return nil
}

// Unlisten removes a subscription made with Listen. Returns false if there
// was none or the source removed nothing.
func (e *Engine) Unlisten(listener, source, event string) (bool, error) {
	lo, err := e.Object(listener)
	if err != nil {
		return false, err
	}
	so, err := e.Object(source)
	if err != nil {
		return false, err
	}
	k := listenKey{listener: listener, source: source, event: event}
	cb, ok := e.listeners[k]
	if !ok {
		return false, nil
	}

	idx := e.begin(ir.TraceEvent{Type: ir.TraceUnbind, Object: source, Listener: listener, Event: event})
	removed, err := responder.UnbindFrom(lo, so, event, cb, nil)
	if err != nil {
		e.fail(idx, err)
		return false, err
	}
	delete(e.listeners, k)
	e.trace[idx].Value = removed
	return removed, nil
}

// UnlistenAll removes every subscription listener made, including ones made
// directly through its bindTo member.
func (e *Engine) UnlistenAll(listener string) (bool, error) {
	lo, err := e.Object(listener)
	if err != nil {
		return false, err
	}
	idx := e.begin(ir.TraceEvent{Type: ir.TraceUnbind, Listener: listener})
	for k := range e.listeners {
		if k.listener == listener {
			delete(e.listeners, k)
		}
	}
	ok, err := responder.UnbindFromAll(lo)
	if err != nil {
		e.fail(idx, err)
		return ok, err
	}
	e.trace[idx].Value = ok
	return ok, nil
}

// Trigger dispatches event with payload from the object under key.
// Callback errors stop the dispatch and are returned unmodified.
func (e *Engine) Trigger(key, event string, payload any) error {
	o, err := e.Object(key)
	if err != nil {
		return err
	}
	idx := e.begin(ir.TraceEvent{Type: ir.TraceTrigger, Object: key, Event: event, Payload: e.Canonical(payload)})
	if err := responder.Trigger(o, event, payload); err != nil {
		e.fail(idx, err)
		return err
	}
	return nil
}
