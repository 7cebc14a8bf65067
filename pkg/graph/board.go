package graph

import (
	"strings"
)

// Board is the caller-side view of a graph being streamed: it applies the
// incremental deltas of a streaming operation and concatenates token
// fragments per node in arrival order.
//
// A Board is not safe for concurrent use; stream handlers run on the single
// goroutine driving the stream.
type Board struct {
	nodes  map[string]*Node
	order  []string
	edges  map[string]Edge
	eorder []string

	titles map[string]string
	text   map[string]*strings.Builder

	// current receives tokens that carry no node id.
	current string
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{
		nodes:  make(map[string]*Node),
		edges:  make(map[string]Edge),
		titles: make(map[string]string),
		text:   make(map[string]*strings.Builder),
	}
}

// Start applies the initial delta of a stream. anchor becomes the default
// in-flight node for tokens without a node id.
func (b *Board) Start(nodes []Node, edges []Edge, anchor string) {
	for _, n := range nodes {
		b.putNode(n)
	}
	for _, e := range edges {
		b.putEdge(e)
	}
	if anchor != "" {
		b.current = anchor
	}
}

// AddKnowledge introduces a new node, and its connecting edge when present.
// The node becomes the default in-flight node.
func (b *Board) AddKnowledge(node Node, edge *Edge) {
	b.putNode(node)
	if edge != nil {
		b.putEdge(*edge)
	}
	b.current = node.ID
}

// SetTitle labels a node while its body is still streaming.
func (b *Board) SetTitle(nodeID, title string) {
	b.titles[nodeID] = title
	if n, ok := b.nodes[nodeID]; ok {
		n.Title = title
	}
}

// AppendToken appends a fragment to nodeID, or to the default in-flight node
// when nodeID is empty. It returns the node the fragment was applied to.
func (b *Board) AppendToken(fragment, nodeID string) string {
	if nodeID == "" {
		nodeID = b.current
	}

	sb, ok := b.text[nodeID]
	if !ok {
		sb = &strings.Builder{}
		b.text[nodeID] = sb
	}
	sb.WriteString(fragment)

	return nodeID
}

// Text returns the streamed text of a node so far.
func (b *Board) Text(nodeID string) string {
	if sb, ok := b.text[nodeID]; ok {
		return sb.String()
	}
	return ""
}

// Current returns the default in-flight node id.
func (b *Board) Current() string {
	return b.current
}

// Node returns a node with its streamed title and text applied.
func (b *Board) Node(id string) (Node, bool) {
	n, ok := b.nodes[id]
	if !ok {
		return Node{}, false
	}
	return b.view(n), true
}

// Nodes returns all nodes in the order they were introduced.
func (b *Board) Nodes() []Node {
	out := make([]Node, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.view(b.nodes[id]))
	}
	return out
}

// Edges returns all edges in the order they were introduced.
func (b *Board) Edges() []Edge {
	out := make([]Edge, 0, len(b.eorder))
	for _, id := range b.eorder {
		out = append(out, b.edges[id])
	}
	return out
}

// Settle replaces streamed state with the authoritative nodes and edges of
// the final result. Streamed text is dropped for the settled nodes.
func (b *Board) Settle(nodes []Node, edges []Edge) {
	for _, n := range nodes {
		b.putNode(n)
		delete(b.text, n.ID)
		delete(b.titles, n.ID)
	}
	for _, e := range edges {
		b.putEdge(e)
	}
}

func (b *Board) view(n *Node) Node {
	out := *n
	if t, ok := b.titles[n.ID]; ok {
		out.Title = t
	}
	if sb, ok := b.text[n.ID]; ok && sb.Len() > 0 {
		out.Content = sb.String()
	}
	return out
}

func (b *Board) putNode(n Node) {
	if _, ok := b.nodes[n.ID]; !ok {
		b.order = append(b.order, n.ID)
	}
	node := n
	b.nodes[n.ID] = &node
}

func (b *Board) putEdge(e Edge) {
	if _, ok := b.edges[e.ID]; !ok {
		b.eorder = append(b.eorder, e.ID)
	}
	b.edges[e.ID] = e
}
