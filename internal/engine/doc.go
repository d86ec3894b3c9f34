// Package engine materializes declarative class specs into live classes and
// drives objects built from them.
//
// The engine composes one class per ir.ClassSpec with class.Extend, in
// parents-first order, on top of the built-in Root and Responder classes.
// Method members are behaviors parsed from reference strings (see
// ir.ParseBehavior). Objects are addressed by caller-chosen keys.
//
// Every instantiation, call, super call, binding and event dispatch is
// recorded as an ir.TraceEvent stamped by a LogicalClock, so a sequence of
// operations always yields the same trace.
//
// An Engine is not safe for concurrent use. Callers drive it from one
// goroutine, the same way the class and responder packages are used.
package engine
