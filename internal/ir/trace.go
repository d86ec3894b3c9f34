package ir

// Trace event types.
const (
	TraceNew      = "new"
	TraceSet      = "set"
	TraceCall     = "call"
	TraceSuper    = "super"
	TraceTrigger  = "trigger"
	TraceDispatch = "dispatch"
	TraceBind     = "bind"
	TraceUnbind   = "unbind"
)

// TraceEvent is one step recorded by the engine.
//
// Object is the subject object key; for dispatch events Listener is the
// receiving object key and Sender the triggering object. Error holds the
// error code of a failed step.
type TraceEvent struct {
	Type     string `json:"type"`
	Seq      int64  `json:"seq"`
	Object   string `json:"object,omitempty"`
	Class    string `json:"class,omitempty"`
	Listener string `json:"listener,omitempty"`
	Event    string `json:"event,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Member   string `json:"member,omitempty"`
	Payload  any    `json:"payload,omitempty"`
	Value    any    `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CanonicalMap converts the event to a map for MarshalCanonical, omitting
// empty fields the same way the JSON tags do.
func (e TraceEvent) CanonicalMap() map[string]any {
	m := map[string]any{
		"type": e.Type,
		"seq":  e.Seq,
	}
	for k, v := range map[string]string{
		"object":   e.Object,
		"class":    e.Class,
		"listener": e.Listener,
		"event":    e.Event,
		"sender":   e.Sender,
		"member":   e.Member,
		"error":    e.Error,
	} {
		if v != "" {
			m[k] = v
		}
	}
	if e.Payload != nil {
		m["payload"] = e.Payload
	}
	if e.Value != nil {
		m["value"] = e.Value
	}
	return m
}
