package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE spec files, relative to the scenario file.
	Specs []string `yaml:"specs"`

	// Steps run in order against a fresh engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step operations.
const (
	OpNew         = "new"
	OpSet         = "set"
	OpCall        = "call"
	OpSuper       = "super"
	OpListen      = "listen"
	OpUnlisten    = "unlisten"
	OpUnlistenAll = "unlisten_all"
	OpTrigger     = "trigger"
)

var stepOps = []string{OpNew, OpSet, OpCall, OpSuper, OpListen, OpUnlisten, OpUnlistenAll, OpTrigger}

// Step is one operation. Which fields apply depends on Do:
//
//	new           object, class, args
//	set           object, member, value
//	call          object, member, args
//	super         object, ancestor, member, args
//	listen        listener, source, event, react
//	unlisten      listener, source, event
//	unlisten_all  listener
//	trigger       object, event, payload
type Step struct {
	Do       string `yaml:"do"`
	Object   string `yaml:"object,omitempty"`
	Class    string `yaml:"class,omitempty"`
	Member   string `yaml:"member,omitempty"`
	Ancestor string `yaml:"ancestor,omitempty"`
	Listener string `yaml:"listener,omitempty"`
	Source   string `yaml:"source,omitempty"`
	Event    string `yaml:"event,omitempty"`
	React    string `yaml:"react,omitempty"`
	Args     []any  `yaml:"args,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	Payload  any    `yaml:"payload,omitempty"`

	// Expect validates the step outcome. If nil, the step must not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step: either an error code
// (engine, class or validation code) or a return value. An expect with no
// error matches a nil return when value is omitted.
type Expect struct {
	Value any    `yaml:"value,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Match is a subset of trace event fields (trace_contains, trace_count).
	Match map[string]any `yaml:"match,omitempty"`

	// Sequence lists matchers that must hit events in this order
	// (trace_order). Other events may appear in between.
	Sequence []map[string]any `yaml:"sequence,omitempty"`

	// Count is the exact number of matching events (trace_count).
	Count int `yaml:"count,omitempty"`

	// Object is the object key (final_state).
	Object string `yaml:"object,omitempty"`

	// Expect maps member names to values, resolved like Get (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. Spec paths are
// resolved relative to the file's directory. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i, p := range s.Specs {
		if !filepath.IsAbs(p) {
			s.Specs[i] = filepath.Join(base, p)
		}
	}
	for _, p := range s.Specs {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("invalid scenario: spec file not found: %s", p)
		}
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML. Spec paths are left
// as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i := range s.Steps {
		if err := validateStep(&s.Steps[i]); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(&s.Assertions[i]); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(st *Step) error {
	if !slices.Contains(stepOps, st.Do) {
		return fmt.Errorf("unknown op %q", st.Do)
	}
	need := func(field, v string) error {
		if v == "" {
			return fmt.Errorf("%s requires %s", st.Do, field)
		}
		return nil
	}
	var checks []error
	switch st.Do {
	case OpNew:
		checks = append(checks, need("object", st.Object), need("class", st.Class))
	case OpSet, OpCall:
		checks = append(checks, need("object", st.Object), need("member", st.Member))
	case OpSuper:
		checks = append(checks, need("object", st.Object), need("ancestor", st.Ancestor), need("member", st.Member))
	case OpListen, OpUnlisten:
		checks = append(checks, need("listener", st.Listener), need("source", st.Source))
	case OpUnlistenAll:
		checks = append(checks, need("listener", st.Listener))
	case OpTrigger:
		checks = append(checks, need("object", st.Object))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(a *Assertion) error {
	switch a.Type {
	case AssertTraceContains, AssertTraceCount:
		if len(a.Match) == 0 {
			return fmt.Errorf("%s requires match", a.Type)
		}
	case AssertTraceOrder:
		if len(a.Sequence) < 2 {
			return fmt.Errorf("trace_order requires at least two sequence entries")
		}
	case AssertFinalState:
		if a.Object == "" || len(a.Expect) == 0 {
			return fmt.Errorf("final_state requires object and expect")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
