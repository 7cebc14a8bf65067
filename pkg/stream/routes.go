package stream

import (
	"github.com/papercomputeco/graphchat/pkg/sse"
)

// Event type tags recognized on the wire.
const (
	TypeStart          = "start"
	TypeQuestionTitle  = "question_title"
	TypeKnowledgeStart = "knowledge_start"
	TypeToken          = "token"
	TypeDone           = "done"
	TypeError          = "error"
)

// Route handles one non-terminal event. It returns an error only when the
// payload cannot be decoded.
type Route func(ev *sse.Event) error

// Routes is the dispatch table of one streaming operation, keyed by event
// type. The terminal "done" and "error" tags are owned by Run and must not
// be registered.
type Routes map[string]Route

// On builds a Route that decodes the payload into P and passes it to fn.
// A nil fn yields a Route that still validates the payload shape.
func On[P any](fn func(P)) Route {
	return func(ev *sse.Event) error {
		var payload P
		if err := ev.Decode(&payload); err != nil {
			return err
		}
		if fn != nil {
			fn(payload)
		}
		return nil
	}
}

// Handle registers r under eventType when r is non-nil and returns routes
// for chaining.
func (routes Routes) Handle(eventType string, r Route) Routes {
	if r != nil {
		routes[eventType] = r
	}
	return routes
}
