// Package harness runs YAML scenarios against the engine.
//
// A scenario names CUE spec files, a list of steps (instantiate, set, call,
// super, listen, unlisten, unlisten_all, trigger) with optional per-step
// expectations, and assertions over the resulting trace and object state:
//
//	name: relay
//	description: a listener repeats what it hears
//	specs: [../specs/relay.cue]
//	steps:
//	  - do: new
//	    object: src
//	    class: Emitter
//	  - do: trigger
//	    object: src
//	    event: ping
//	assertions:
//	  - type: trace_count
//	    match: { type: dispatch }
//	    count: 0
//
// Every run uses a deterministic clock and class identities, so the same
// scenario always produces the same trace. RunWithGolden compares that
// trace against testdata/golden/<name>.golden.
package harness
