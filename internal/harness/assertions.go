package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ian97531/origin/internal/engine"
	"github.com/ian97531/origin/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Trace    []ir.TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, describeEvent(ev))
		}
	}
	return buf.String()
}

func describeEvent(ev ir.TraceEvent) string {
	parts := []string{ev.Type}
	for _, f := range []struct{ k, v string }{
		{"object", ev.Object},
		{"class", ev.Class},
		{"listener", ev.Listener},
		{"event", ev.Event},
		{"sender", ev.Sender},
		{"member", ev.Member},
		{"error", ev.Error},
	} {
		if f.v != "" {
			parts = append(parts, f.k+"="+f.v)
		}
	}
	if ev.Payload != nil {
		parts = append(parts, fmt.Sprintf("payload=%v", ev.Payload))
	}
	if ev.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", ev.Value))
	}
	return strings.Join(parts, " ")
}

// EvaluateAssertions checks every assertion and returns a message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion, eng *engine.Engine) []string {
	var msgs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(eng, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

// matchEvent reports whether every field in want equals the same field of
// ev. Values are compared after normalization, so YAML ints match int64.
func matchEvent(ev ir.TraceEvent, want map[string]any) bool {
	fields := ev.CanonicalMap()
	for k, w := range want {
		expected, err := ir.NormalizeValue(w)
		if err != nil {
			return false
		}
		if !reflect.DeepEqual(fields[k], expected) {
			return false
		}
	}
	return true
}

func assertTraceContains(trace []ir.TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if matchEvent(ev, a.Match) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event matching %v", a.Match),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that each matcher hits an event after the one
// matched by its predecessor.
func assertTraceOrder(trace []ir.TraceEvent, a Assertion) error {
	pos := 0
	for i, want := range a.Sequence {
		found := false
		for ; pos < len(trace); pos++ {
			if matchEvent(trace[pos], want) {
				found = true
				pos++
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("sequence[%d] %v after sequence[%d]", i, want, i-1),
				Actual:   "no matching event in order",
				Trace:    trace,
			}
		}
	}
	return nil
}

func assertTraceCount(trace []ir.TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if matchEvent(ev, a.Match) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d events matching %v", a.Count, a.Match),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState resolves each expected member like Get: own field first,
// then the class template.
func assertFinalState(eng *engine.Engine, a Assertion) error {
	for member, w := range a.Expect {
		got, err := eng.Get(a.Object, member)
		if err != nil {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s.%s = %v", a.Object, member, w),
				Actual:   err.Error(),
			}
		}
		expected, err := ir.NormalizeValue(w)
		if err != nil {
			return fmt.Errorf("final_state %s.%s: %w", a.Object, member, err)
		}
		if actual := eng.Canonical(got); !reflect.DeepEqual(actual, expected) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s.%s = %v", a.Object, member, expected),
				Actual:   fmt.Sprintf("%v", actual),
			}
		}
	}
	return nil
}
