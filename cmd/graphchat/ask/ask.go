// Package askcmder provides the ask command, which asks a question inside a
// session and streams the question, answer and knowledge nodes it creates.
package askcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/client"
	"github.com/papercomputeco/graphchat/pkg/cliui"
	"github.com/papercomputeco/graphchat/pkg/graph"
)

const askLongDesc string = `Ask a question within a session.

The question is anchored to the nodes given with --node and to any
highlighted sections given with --section (NODE_ID:TITLE). Without
--session the last session started with "graphchat init" is used.

The answer streams token by token; knowledge nodes the answer introduces
stream after it.

Examples:
  graphchat ask "why can't I borrow twice mutably?"
  graphchat ask --node n-1 --node n-4 "how do these relate?"
  graphchat ask --section n-1:Lifetimes "what does 'a mean here?"`

const askShortDesc string = "Ask a question and stream the answer"

type askCommander struct {
	flags     sharedcmder.ClientFlags
	sessionID string
	nodeIDs   []string
	sections  []string
	noStream  bool
	render    bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := sharedcmder.Load(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			return cmder.run(cmd, env, strings.Join(args, " "))
		},
	}

	sharedcmder.AddClientFlags(cmd, &cmder.flags)
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: last session)")
	cmd.Flags().StringArrayVarP(&cmder.nodeIDs, "node", "n", nil, "Node id to anchor the question to (repeatable)")
	cmd.Flags().StringArrayVar(&cmder.sections, "section", nil, "Highlighted section as NODE_ID:TITLE (repeatable)")
	cmd.Flags().BoolVar(&cmder.noStream, "no-stream", false, "Wait for the whole answer instead of streaming it")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the answer as markdown when done")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, env *sharedcmder.Env, question string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	sections, err := ParseSections(c.sections)
	if err != nil {
		return err
	}

	req := client.AskRequest{
		Question:         question,
		NodeIDs:          c.nodeIDs,
		SelectedSections: sections,
	}

	var (
		result graph.AskResult
		answer string
	)
	board := graph.NewBoard()

	if c.noStream {
		err = cliui.Step(cmd.ErrOrStderr(), "Asking", func() error {
			var stepErr error
			result, stepErr = env.Client.Ask(ctx, sessionID, req)
			return stepErr
		})
	} else {
		transcript := sharedcmder.NewTranscript(out, board, env.Interactive)

		result, err = env.Client.AskQuestionStream(ctx, sessionID, req, client.AskHandlers{
			OnStart: func(s client.AskStart) {
				board.Start(s.Nodes, s.Edges, s.AnswerNodeID)
				answer = s.AnswerNodeID
			},
			OnQuestionTitle: func(t client.QuestionTitle) {
				board.SetTitle(t.NodeID, t.Title)
			},
			OnKnowledgeStart: func(k client.KnowledgeStart) {
				transcript.Knowledge(k.Node, k.Edge)
			},
			OnToken: transcript.Token,
		})
		transcript.Finish()
	}
	if err != nil {
		return fmt.Errorf("asking question: %w", err)
	}
	board.Settle(result.NewNodes, result.NewEdges)

	if c.sessionID != "" {
		env.Remember(sessionID, "")
	}

	printResult(out, result, board)

	if c.render {
		if n, ok := answerNode(board.Nodes(), answer); ok {
			sharedcmder.RenderNode(out, n)
		}
	}
	return nil
}

// ParseSections parses NODE_ID:TITLE values into selected sections.
func ParseSections(values []string) ([]graph.SelectedSection, error) {
	sections := make([]graph.SelectedSection, 0, len(values))
	for _, v := range values {
		nodeID, title, ok := strings.Cut(v, ":")
		nodeID = strings.TrimSpace(nodeID)
		if !ok || nodeID == "" {
			return nil, fmt.Errorf("invalid --section %q: expected NODE_ID:TITLE", v)
		}
		sections = append(sections, graph.SelectedSection{
			NodeID: nodeID,
			Title:  strings.TrimSpace(title),
		})
	}
	return sections, nil
}

func printResult(w io.Writer, result graph.AskResult, board *graph.Board) {
	nodes, edges := board.Nodes(), board.Edges()

	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render(fmt.Sprintf("%d new nodes, %d new edges", len(nodes), len(edges))),
	)
	sharedcmder.PrintNodes(w, nodes)

	if result.RedirectHint != nil && *result.RedirectHint != "" {
		fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render("Hint:"), cliui.ValueStyle.Render(*result.RedirectHint))
	}
	if result.Counterexample != nil {
		fmt.Fprintf(w, "\n  %s\n", cliui.KeyStyle.Render("Counterexample:"))
		sharedcmder.PrintNodes(w, []graph.Node{*result.Counterexample})
	}
	fmt.Fprintln(w)
}

// answerNode finds the announced answer node, falling back to the first
// node of type answer.
func answerNode(nodes []graph.Node, id string) (graph.Node, bool) {
	for _, n := range nodes {
		if id != "" && n.ID == id {
			return n, true
		}
	}
	for _, n := range nodes {
		if n.NodeType == graph.NodeAnswer {
			return n, true
		}
	}
	return graph.Node{}, false
}
