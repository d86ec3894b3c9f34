package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/compiler"
	"github.com/ian97531/origin/internal/ir"
	"github.com/ian97531/origin/internal/responder"
)

// DefaultMaxCallDepth bounds nested behavior calls. Runaway recursion, such
// as a parent: behavior that reaches its own override, stops here.
const DefaultMaxCallDepth = 256

// Engine holds the classes composed from a set of specs, the objects built
// from them and the trace of everything done to those objects.
//
// INVARIANTS:
//   - classes never changes after New returns
//   - trace seqs are strictly increasing
//   - every registered object has exactly one key
type Engine struct {
	clock        LogicalClock
	logger       *slog.Logger
	idGen        class.IDGenerator
	maxCallDepth int
	depth        int

	classes    map[string]*class.Class
	classOrder []string
	specs      map[string]ir.ClassSpec

	objects map[string]*class.Object
	keys    map[*class.Object]string

	listeners map[listenKey]*responder.Callback
	trace     []ir.TraceEvent
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp trace events.
func WithClock(c LogicalClock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithIDGenerator sets the generator for class identity tokens while New
// composes classes. Use class.NewSequenceGenerator for reproducible output.
func WithIDGenerator(g class.IDGenerator) Option {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithMaxCallDepth sets how deeply behavior calls may nest.
//
// Default: 256 (DefaultMaxCallDepth)
func WithMaxCallDepth(n int) Option {
	return func(e *Engine) {
		e.maxCallDepth = n
	}
}

// New validates specs and composes one class per spec, parents first.
//
// Specs may extend each other or the built-in Root and Responder classes.
// Validation failures are reported together as an INVALID_SPECS error that
// wraps every compiler.ValidationError.
func New(specs []ir.ClassSpec, opts ...Option) (*Engine, error) {
	e := &Engine{
		clock:        NewClock(),
		logger:       slog.Default(),
		maxCallDepth: DefaultMaxCallDepth,
		classes: map[string]*class.Class{
			ir.RootClass:      class.Root,
			ir.ResponderClass: responder.Class,
		},
		specs:     make(map[string]ir.ClassSpec, len(specs)),
		objects:   make(map[string]*class.Object),
		keys:      make(map[*class.Object]string),
		listeners: make(map[listenKey]*responder.Callback),
	}
	for _, opt := range opts {
		opt(e)
	}

	if verrs := compiler.ValidateAll(specs); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("%w: %w", &RuntimeError{
			Code:    ErrCodeInvalidSpecs,
			Message: fmt.Sprintf("%d validation error(s)", len(verrs)),
		}, errors.Join(errs...))
	}
	// ValidateAll already rejected unknown parents and cycles.
	ordered, _ := compiler.ResolveHierarchy(specs)

	if e.idGen != nil {
		restore := class.SetIDGenerator(e.idGen)
		defer restore()
	}
	for _, spec := range ordered {
		c, err := e.compose(spec)
		if err != nil {
			return nil, err
		}
		e.classes[spec.Name] = c
		e.classOrder = append(e.classOrder, spec.Name)
		e.specs[spec.Name] = spec
	}

	e.logger.Info("engine ready", "classes", len(e.classOrder))
	return e, nil
}

func (e *Engine) compose(spec ir.ClassSpec) (*class.Class, error) {
	parent := e.classes[spec.ParentName()]

	data, err := ir.NormalizeMembers(spec.Properties)
	if err != nil {
		return nil, fmt.Errorf("class %s: properties: %w", spec.Name, err)
	}
	statics, err := ir.NormalizeMembers(spec.ClassProperties)
	if err != nil {
		return nil, fmt.Errorf("class %s: class_properties: %w", spec.Name, err)
	}

	props := class.Members(data)
	if props == nil {
		props = class.Members{}
	}
	for _, name := range slices.Sorted(maps.Keys(spec.Methods)) {
		b, err := ir.ParseBehavior(spec.Methods[name])
		if err != nil {
			return nil, &RuntimeError{Code: ErrCodeUnknownBehavior, Message: err.Error(), Class: spec.Name, Member: name}
		}
		props[name] = e.behavior(name, b)
	}

	steps, err := ir.ParseInitializer(spec.Initializer)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeUnknownBehavior, Message: err.Error(), Class: spec.Name, Member: "initializer"}
	}
	var init class.Initializer
	if len(steps) > 0 {
		init = initializer(parent, steps)
	}

	c := parent.Extend(class.Options{
		Name:            spec.Name,
		Initializer:     init,
		Properties:      props,
		ClassProperties: class.Members(statics),
	})
	e.logger.Debug("class materialized", "class", spec.Name, "parent", parent.String(), "id", c.ID())
	return c, nil
}

// initializer runs steps in order. A set step whose argument is missing
// leaves the template default in place.
func initializer(parent *class.Class, steps []ir.InitStep) class.Initializer {
	return func(self *class.Object, args ...any) error {
		for _, step := range steps {
			switch step.Kind {
			case ir.InitSuper:
				if err := parent.Initialize(self, args...); err != nil {
					return err
				}
			case ir.InitSet:
				if step.Index < len(args) {
					self.Set(step.Member, args[step.Index])
				}
			}
		}
		return nil
	}
}

// Class returns the class composed for name, including Root and Responder.
func (e *Engine) Class(name string) (*class.Class, error) {
	c, ok := e.classes[name]
	if !ok {
		return nil, newUnknownClassError(name)
	}
	return c, nil
}

// ClassNames returns the declared class names in composition order.
func (e *Engine) ClassNames() []string {
	return slices.Clone(e.classOrder)
}

// Instantiate creates an object of className under key, passing args to the
// class constructor.
func (e *Engine) Instantiate(key, className string, args ...any) (*class.Object, error) {
	if _, exists := e.objects[key]; exists {
		return nil, &RuntimeError{Code: ErrCodeDuplicateObject, Message: "object key already in use", Object: key}
	}
	c, err := e.Class(className)
	if err != nil {
		return nil, err
	}

	idx := e.begin(ir.TraceEvent{Type: ir.TraceNew, Object: key, Class: className})
	o, err := c.New(args...)
	if err != nil {
		e.fail(idx, err)
		return nil, err
	}
	e.objects[key] = o
	e.keys[o] = key
	return o, nil
}

// Object returns the object registered under key.
func (e *Engine) Object(key string) (*class.Object, error) {
	o, ok := e.objects[key]
	if !ok {
		return nil, newUnknownObjectError(key)
	}
	return o, nil
}

// ObjectKeys returns every object key, sorted.
func (e *Engine) ObjectKeys() []string {
	return slices.Sorted(maps.Keys(e.objects))
}

// Set assigns an own field on the object under key.
func (e *Engine) Set(key, member string, value any) error {
	o, err := e.Object(key)
	if err != nil {
		return err
	}
	o.Set(member, value)
	e.begin(ir.TraceEvent{Type: ir.TraceSet, Object: key, Member: member, Value: e.Canonical(value)})
	return nil
}

// Get reads member from the object under key: own fields first, then the
// class template.
func (e *Engine) Get(key, member string) (any, error) {
	o, err := e.Object(key)
	if err != nil {
		return nil, err
	}
	v, ok := o.Get(member)
	if !ok {
		return nil, class.NewMissingMemberError(o.Class(), member)
	}
	return v, nil
}

// Call invokes member on the object under key.
func (e *Engine) Call(key, member string, args ...any) (any, error) {
	o, err := e.Object(key)
	if err != nil {
		return nil, err
	}
	idx := e.begin(ir.TraceEvent{Type: ir.TraceCall, Object: key, Member: member})
	out, err := o.Call(member, args...)
	if err != nil {
		e.fail(idx, err)
		return nil, err
	}
	e.trace[idx].Value = e.Canonical(out)
	return out, nil
}

// Super invokes member through the super view of ancestor for the object
// under key.
func (e *Engine) Super(key, ancestor, member string, args ...any) (any, error) {
	o, err := e.Object(key)
	if err != nil {
		return nil, err
	}
	anc, err := e.Class(ancestor)
	if err != nil {
		return nil, err
	}
	idx := e.begin(ir.TraceEvent{Type: ir.TraceSuper, Object: key, Class: ancestor, Member: member})
	out, err := e.superCall(o, anc, member, args...)
	if err != nil {
		e.fail(idx, err)
		return nil, err
	}
	e.trace[idx].Value = e.Canonical(out)
	return out, nil
}

func (e *Engine) superCall(o *class.Object, anc *class.Class, member string, args ...any) (any, error) {
	shims, err := o.Parent(anc)
	if err != nil {
		return nil, err
	}
	return shims.Call(member, args...)
}

// State returns the object's public fields: own fields whose names do not
// start with an underscore.
func (e *Engine) State(key string) (map[string]any, error) {
	o, err := e.Object(key)
	if err != nil {
		return nil, err
	}
	state := make(map[string]any)
	for name, v := range o.Fields() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		state[name] = e.Canonical(v)
	}
	return state, nil
}

// Trace returns a copy of the events recorded so far.
func (e *Engine) Trace() []ir.TraceEvent {
	return slices.Clone(e.trace)
}

// begin stamps ev and appends it, returning its index so the caller can
// fill in the outcome. Stamping first keeps a call ahead of the dispatches
// it causes.
func (e *Engine) begin(ev ir.TraceEvent) int {
	ev.Seq = e.clock.Next()
	e.trace = append(e.trace, ev)
	e.logger.Debug("trace event",
		"type", ev.Type,
		"seq", ev.Seq,
		"object", ev.Object,
		"member", ev.Member,
		"event", ev.Event,
	)
	return len(e.trace) - 1
}

func (e *Engine) fail(idx int, err error) {
	code := CodeOf(err)
	if code == "" {
		code = "ERROR"
	}
	e.trace[idx].Error = code
	e.logger.Debug("trace step failed", "seq", e.trace[idx].Seq, "error", err)
}

func (e *Engine) keyOf(o *class.Object) string {
	return e.keys[o]
}

// Canonical converts v into a value MarshalCanonical accepts. Objects
// become their keys and callables become "<method>".
func (e *Engine) Canonical(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case class.BoundMethod:
		return "<method>"
	case *class.Object:
		if key := e.keyOf(x); key != "" {
			return key
		}
		return "<object " + x.Class().String() + ">"
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = e.Canonical(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = e.Canonical(item)
		}
		return out
	}
	if class.IsCallable(v) {
		return "<method>"
	}
	if n, err := ir.NormalizeValue(v); err == nil {
		return n
	}
	return fmt.Sprint(v)
}
