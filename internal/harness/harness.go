package harness

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/compiler"
	"github.com/ian97531/origin/internal/engine"
	"github.com/ian97531/origin/internal/ir"
	"github.com/ian97531/origin/internal/testutil"
)

// Harness runs one scenario against one engine.
type Harness struct {
	engine *engine.Engine
}

// Run executes a scenario in a fresh engine and returns the result.
//
// Execution flow:
//  1. Load and compile the scenario's CUE specs
//  2. Build an engine with a deterministic clock and class identities
//  3. Execute steps, checking each expect clause
//  4. Evaluate assertions against the trace and final state
//
// Step and assertion failures are reported in the Result. The error return
// is for scenarios that cannot run at all, such as unloadable specs.
func Run(scenario *Scenario) (*Result, error) {
	specs, err := compiler.LoadFiles(scenario.Specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load specs: %w", err)
	}

	eng, err := engine.New(specs,
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithIDGenerator(class.NewSequenceGenerator(scenario.Name)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	h := &Harness{engine: eng}
	result := NewResult()
	for i, step := range scenario.Steps {
		if msg := h.executeStep(step); msg != "" {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Do, msg))
		}
	}

	result.Trace = eng.Trace()
	for _, key := range eng.ObjectKeys() {
		state, err := eng.State(key)
		if err != nil {
			return nil, err
		}
		result.State[key] = state
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, eng) {
		result.AddError(msg)
	}
	return result, nil
}

// RunFile loads the scenario at path and runs it.
func RunFile(path string) (*Scenario, *Result, error) {
	s, err := LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := Run(s)
	return s, r, err
}

// executeStep runs one step and returns a failure message, or "" on success.
func (h *Harness) executeStep(st Step) string {
	args, err := normalizeAll(st.Args)
	if err != nil {
		return fmt.Sprintf("args: %v", err)
	}

	var out any
	switch st.Do {
	case OpNew:
		_, err = h.engine.Instantiate(st.Object, st.Class, args...)
	case OpSet:
		var v any
		if v, err = ir.NormalizeValue(st.Value); err == nil {
			err = h.engine.Set(st.Object, st.Member, v)
		}
	case OpCall:
		out, err = h.engine.Call(st.Object, st.Member, args...)
	case OpSuper:
		out, err = h.engine.Super(st.Object, st.Ancestor, st.Member, args...)
	case OpListen:
		out, err = h.engine.Listen(st.Listener, st.Source, st.Event, st.React)
	case OpUnlisten:
		out, err = h.engine.Unlisten(st.Listener, st.Source, st.Event)
	case OpUnlistenAll:
		out, err = h.engine.UnlistenAll(st.Listener)
	case OpTrigger:
		var payload any
		if payload, err = ir.NormalizeValue(st.Payload); err == nil {
			err = h.engine.Trigger(st.Object, st.Event, payload)
		}
	default:
		return fmt.Sprintf("unknown op %q", st.Do)
	}

	return checkExpect(st.Expect, h.engine.Canonical(out), err)
}

func checkExpect(want *Expect, got any, err error) string {
	if want == nil {
		if err != nil {
			return fmt.Sprintf("unexpected error: %v", err)
		}
		return ""
	}
	if want.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error %s, got success with %v", want.Error, got)
		}
		if code := engine.CodeOf(err); code != want.Error {
			return fmt.Sprintf("expected error %s, got %s (%v)", want.Error, code, err)
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	expected, nerr := ir.NormalizeValue(want.Value)
	if nerr != nil {
		return fmt.Sprintf("expect.value: %v", nerr)
	}
	if !reflect.DeepEqual(expected, got) {
		return fmt.Sprintf("expected value %v, got %v", expected, got)
	}
	return ""
}

func normalizeAll(values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		n, err := ir.NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
