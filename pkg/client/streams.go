package client

import (
	"context"
	"errors"

	"github.com/papercomputeco/graphchat/pkg/graph"
	"github.com/papercomputeco/graphchat/pkg/stream"
)

// ErrNoTokenHandler is returned when a streaming call is made without an
// OnToken handler.
var ErrNoTokenHandler = errors.New("OnToken handler is required")

// InitStart is the initial delta of an init stream.
type InitStart struct {
	Nodes      []graph.Node `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
	RootNodeID string       `json:"root_node_id,omitempty"`
}

// AskStart is the initial delta of an ask stream.
type AskStart struct {
	Nodes          []graph.Node `json:"nodes"`
	Edges          []graph.Edge `json:"edges"`
	QuestionNodeID string       `json:"question_node_id,omitempty"`
	AnswerNodeID   string       `json:"answer_node_id,omitempty"`
}

// KnowledgeStart introduces one new node before any of its tokens.
type KnowledgeStart struct {
	Node graph.Node  `json:"node"`
	Edge *graph.Edge `json:"edge,omitempty"`
}

// QuestionTitle labels a node while its body is still streaming.
type QuestionTitle struct {
	NodeID string `json:"node_id"`
	Title  string `json:"title"`
}

// TokenFunc receives one text fragment. nodeID is empty when the fragment
// belongs to the default in-flight node.
type TokenFunc func(content, nodeID string)

// InitHandlers receive the events of InitSessionStream. OnToken is required.
type InitHandlers struct {
	OnStart          func(InitStart)
	OnKnowledgeStart func(KnowledgeStart)
	OnToken          TokenFunc
}

// AskHandlers receive the events of AskQuestionStream. OnToken is required.
type AskHandlers struct {
	OnStart          func(AskStart)
	OnQuestionTitle  func(QuestionTitle)
	OnKnowledgeStart func(KnowledgeStart)
	OnToken          TokenFunc
}

// AskRequest is the body of an ask call.
type AskRequest struct {
	Question         string                  `json:"question"`
	NodeIDs          []string                `json:"node_ids"`
	SelectedSections []graph.SelectedSection `json:"selected_sections"`
}

type initRequest struct {
	Topic string `json:"topic"`
}

type knowledgePayload struct {
	Node *graph.Node `json:"node"`
	Edge *graph.Edge `json:"edge"`
}

type tokenPayload struct {
	Content string `json:"content"`
	NodeID  string `json:"node_id"`
}

// InitSessionStream creates a session for topic and streams its initial
// graph. It returns the "done" result once the server resolves the stream.
func (c *Client) InitSessionStream(ctx context.Context, topic string, h InitHandlers) (graph.InitResult, error) {
	topic, err := validateTopic(topic)
	if err != nil {
		return graph.InitResult{}, err
	}
	if h.OnToken == nil {
		return graph.InitResult{}, ErrNoTokenHandler
	}

	routes := stream.Routes{}.
		Handle(stream.TypeStart, startRoute(h.OnStart)).
		Handle(stream.TypeKnowledgeStart, knowledgeRoute(h.OnKnowledgeStart)).
		Handle(stream.TypeToken, tokenRoute(h.OnToken))

	return runStream[graph.InitResult](ctx, c, "init", "/api/sessions/init/stream", initRequest{Topic: topic}, routes)
}

// AskQuestionStream asks a question within a session and streams the new
// question, answer and knowledge nodes.
func (c *Client) AskQuestionStream(ctx context.Context, sessionID string, req AskRequest, h AskHandlers) (graph.AskResult, error) {
	req, err := validateAsk(sessionID, req)
	if err != nil {
		return graph.AskResult{}, err
	}
	if h.OnToken == nil {
		return graph.AskResult{}, ErrNoTokenHandler
	}

	routes := stream.Routes{}.
		Handle(stream.TypeStart, startRoute(h.OnStart)).
		Handle(stream.TypeQuestionTitle, titleRoute(h.OnQuestionTitle)).
		Handle(stream.TypeKnowledgeStart, knowledgeRoute(h.OnKnowledgeStart)).
		Handle(stream.TypeToken, tokenRoute(h.OnToken))

	path := sessionPath(sessionID, "ask", "stream")
	return runStream[graph.AskResult](ctx, c, "ask", path, req, routes)
}

// startRoute normalizes missing collections to empty slices and delivers
// only the first start event of a stream.
func startRoute[S InitStart | AskStart](fn func(S)) stream.Route {
	if fn == nil {
		return nil
	}
	seen := false
	return stream.On(func(p S) {
		if seen {
			return
		}
		seen = true
		fn(withEmptyCollections(p))
	})
}

func withEmptyCollections[S InitStart | AskStart](p S) S {
	switch s := any(&p).(type) {
	case *InitStart:
		s.Nodes, s.Edges = orEmpty(s.Nodes), orEmpty(s.Edges)
	case *AskStart:
		s.Nodes, s.Edges = orEmpty(s.Nodes), orEmpty(s.Edges)
	}
	return p
}

// knowledgeRoute skips knowledge_start events that carry no node.
func knowledgeRoute(fn func(KnowledgeStart)) stream.Route {
	if fn == nil {
		return nil
	}
	return stream.On(func(p knowledgePayload) {
		if p.Node == nil {
			return
		}
		fn(KnowledgeStart{Node: *p.Node, Edge: p.Edge})
	})
}

func titleRoute(fn func(QuestionTitle)) stream.Route {
	if fn == nil {
		return nil
	}
	return stream.On(fn)
}

func tokenRoute(fn TokenFunc) stream.Route {
	return stream.On(func(p tokenPayload) {
		fn(p.Content, p.NodeID)
	})
}

func orEmpty[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}
