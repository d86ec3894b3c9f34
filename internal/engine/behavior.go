package engine

import (
	"github.com/ian97531/origin/internal/class"
	"github.com/ian97531/origin/internal/ir"
)

// behavior turns a parsed method reference into a class.Method. Every call
// counts against the engine's call depth.
func (e *Engine) behavior(member string, b ir.Behavior) class.Method {
	return func(self *class.Object, args ...any) (any, error) {
		if e.depth >= e.maxCallDepth {
			err := newDepthError(e.keyOf(self), member, e.maxCallDepth)
			e.logger.Warn("call depth exceeded", "object", e.keyOf(self), "member", member, "limit", e.maxCallDepth)
			return nil, err
		}
		e.depth++
		defer func() { e.depth-- }()

		switch b.Kind {
		case ir.BehaviorConst:
			return b.Text, nil

		case ir.BehaviorField:
			v, _ := self.Get(b.Member)
			return v, nil

		case ir.BehaviorCall:
			return self.Call(b.Member, args...)

		case ir.BehaviorStatic:
			v, ok := self.Class().Static(b.Member)
			if !ok {
				return nil, class.NewMissingMemberError(self.Class(), b.Member)
			}
			if class.IsCallable(v) {
				return self.Class().CallStatic(b.Member, args...)
			}
			return v, nil

		case ir.BehaviorSuper:
			anc, err := e.Class(b.Ancestor)
			if err != nil {
				return nil, err
			}
			return self.CallAs(anc, b.Member, args...)

		case ir.BehaviorParent:
			anc, err := e.Class(b.Ancestor)
			if err != nil {
				return nil, err
			}
			return e.superCall(self, anc, b.Member, args...)
		}

		return nil, &RuntimeError{
			Code:    ErrCodeUnknownBehavior,
			Message: "unknown behavior kind " + b.Kind,
			Object:  e.keyOf(self),
			Member:  member,
		}
	}
}
