package sharedcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/graphchat/pkg/cliui"
	"github.com/papercomputeco/graphchat/pkg/graph"
	"github.com/papercomputeco/graphchat/pkg/utils"
)

// Transcript applies streamed deltas to a Board and, when live, echoes
// tokens to w as they arrive with a header whenever the target node changes.
type Transcript struct {
	w     io.Writer
	board *graph.Board
	live  bool
	last  string
}

func NewTranscript(w io.Writer, board *graph.Board, live bool) *Transcript {
	return &Transcript{w: w, board: board, live: live}
}

// Token is a client.TokenFunc.
func (t *Transcript) Token(content, nodeID string) {
	id := t.board.AppendToken(content, nodeID)
	if !t.live {
		return
	}
	if id != t.last {
		if t.last != "" {
			fmt.Fprintln(t.w)
		}
		t.header(id)
		t.last = id
	}
	fmt.Fprint(t.w, content)
}

// Knowledge announces a node introduced mid-stream.
func (t *Transcript) Knowledge(node graph.Node, edge *graph.Edge) {
	t.board.AddKnowledge(node, edge)
	if t.live && t.last != "" {
		fmt.Fprintln(t.w)
		t.last = ""
	}
}

// Finish terminates the live echo line.
func (t *Transcript) Finish() {
	if t.live && t.last != "" {
		fmt.Fprintln(t.w)
		t.last = ""
	}
}

func (t *Transcript) header(nodeID string) {
	node, ok := t.board.Node(nodeID)
	if !ok {
		fmt.Fprintf(t.w, "\n  %s\n", cliui.IDStyle.Render(nodeID))
		return
	}
	fmt.Fprintf(t.w, "\n  %s %s\n", cliui.NodeBadge(string(node.NodeType)), cliui.TitleStyle.Render(node.Title))
}

// PrintNodes lists nodes with their type badge, id and a content preview.
func PrintNodes(w io.Writer, nodes []graph.Node) {
	for _, n := range nodes {
		fmt.Fprintf(w, "  %s %s %s\n",
			cliui.NodeBadge(string(n.NodeType)),
			cliui.NameStyle.Render(n.Title),
			cliui.DimStyle.Render(n.ID),
		)
		if preview := preview(n.Content); preview != "" {
			fmt.Fprintf(w, "      %s\n", cliui.ValueStyle.Render(preview))
		}
	}
}

// RenderNode prints a node's full content as markdown.
func RenderNode(w io.Writer, n graph.Node) {
	body := fmt.Sprintf("## %s\n\n%s", n.Title, n.Content)
	out, err := cliui.RenderMarkdown(body, 100)
	if err != nil {
		fmt.Fprintln(w, body)
		return
	}
	fmt.Fprint(w, out)
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	return utils.Truncate(content, 72)
}
