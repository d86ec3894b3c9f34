// Package responder provides Responder, the event publish/subscribe class.
//
// Responder is composed from class.Root like any other class; application
// classes extend it to gain the notification members:
//
//	Button := responder.Class.Extend(class.Options{Name: "Button"})
//	btn := Button.MustNew()
//	clicked := responder.NewCallback(func(self any, ev responder.Event) error {
//	    fmt.Println("clicked:", ev.Payload)
//	    return nil
//	})
//	responder.On(btn, "click", clicked, nil)
//	responder.Trigger(btn, "click", 1)
//
// The members (on, off, bindTo, unbindFrom, unbindFromAll, trigger, repeat)
// are ordinary class.Method values, so subclasses may override them and
// reach the originals with Parent(responder.Class) or CallAs. The typed
// helpers in this package dispatch through the object's members, so
// overrides are honored.
//
// Dispatch is synchronous. Event-specific callbacks run first, then
// wildcard ("all") callbacks, each group in registration order. An error
// from a callback stops the dispatch and is returned unchanged.
//
// Callbacks compare by *Callback identity; contexts compare by identity.
package responder
