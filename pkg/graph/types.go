// Package graph holds the knowledge-graph entities exchanged with the
// graphchat server. The client passes them through without interpreting
// their content.
package graph

// NodeType classifies a node on the canvas.
type NodeType string

const (
	NodeCore           NodeType = "core"
	NodeNormal         NodeType = "normal"
	NodeCounterexample NodeType = "counterexample"
	NodeSkeleton       NodeType = "skeleton"
	NodeQuestion       NodeType = "question"
	NodeAnswer         NodeType = "answer"
	NodeKnowledge      NodeType = "knowledge"
)

// EdgeType classifies an edge. Only direct edges exist today.
type EdgeType string

const EdgeDirect EdgeType = "direct"

// Session is one learning session rooted at a topic.
type Session struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	CreatedAt string `json:"created_at"`
}

// Node is a titled block of content placed on the canvas.
type Node struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"session_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	NodeType   NodeType `json:"node_type"`
	Mastery    float64  `json:"mastery,omitempty"`
	Importance float64  `json:"importance,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

// Edge connects two nodes, optionally anchored at a section of the source.
type Edge struct {
	ID               string   `json:"id"`
	SessionID        string   `json:"session_id"`
	SourceNodeID     string   `json:"source_node_id"`
	TargetNodeID     string   `json:"target_node_id"`
	SourceSectionKey *string  `json:"source_section_key,omitempty"`
	Question         string   `json:"question,omitempty"`
	Strength         float64  `json:"strength,omitempty"`
	EdgeType         EdgeType `json:"edge_type"`
	CreatedAt        string   `json:"created_at"`
}

// SelectedSection is a piece of a node the user highlighted as context for
// a question.
type SelectedSection struct {
	NodeID string  `json:"node_id"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Key    *string `json:"key,omitempty"`
}

// Data is a full graph snapshot of a session.
type Data struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// InitResult is the outcome of initializing a session.
type InitResult struct {
	Session Session `json:"session"`
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
}

// AskResult is the outcome of asking a question.
type AskResult struct {
	NewNodes       []Node  `json:"new_nodes"`
	NewEdges       []Edge  `json:"new_edges"`
	RedirectHint   *string `json:"redirect_hint,omitempty"`
	Counterexample *Node   `json:"counterexample,omitempty"`
}

// QuizItem is a generated quiz question tied to a node.
type QuizItem struct {
	QuizID        string `json:"quiz_id"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	RelatedNodeID string `json:"related_node_id"`
	Difficulty    string `json:"difficulty"`
}

// QuizGrade is the server's verdict on an answer.
type QuizGrade struct {
	Correct      bool    `json:"correct"`
	Feedback     string  `json:"feedback"`
	MasteryDelta float64 `json:"mastery_delta"`
}

// Review summarizes the session's gaps and suggested next actions.
type Review struct {
	Summary string   `json:"summary"`
	Gaps    []string `json:"gaps"`
	Actions []string `json:"actions"`
}
