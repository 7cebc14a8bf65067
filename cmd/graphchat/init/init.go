// Package initcmder provides the init command, which starts a learning
// session for a topic and streams its initial graph.
package initcmder

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

const initLongDesc string = `Start a learning session for a topic.

The server builds the initial concept graph and streams it back: the
skeleton nodes arrive first, then the body of each node token by token.
On a terminal the tokens are echoed live; the finished nodes are listed
once the stream resolves.

The new session becomes the default for "graphchat ask".

Examples:
  graphchat init Rust ownership
  graphchat init "Bayesian inference" --no-stream
  graphchat init Rust --record-dir ./streams`

const initShortDesc string = "Start a session and stream its initial graph"

type initCommander struct {
	flags    sharedcmder.ClientFlags
	noStream bool
	render   bool
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init <topic>",
		Short: initShortDesc,
		Long:  initLongDesc,
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
	cmd.Flags().BoolVar(&cmder.noStream, "no-stream", false, "Wait for the whole graph instead of streaming it")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the root node as markdown when done")

	return cmd
}

func (c *initCommander) run(cmd *cobra.Command, env *sharedcmder.Env, topic string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var (
		result graph.InitResult
		err    error
		root   string
	)
	board := graph.NewBoard()

	if c.noStream {
		err = cliui.Step(cmd.ErrOrStderr(), "Building graph for "+topic, func() error {
			var stepErr error
			result, stepErr = env.Client.InitSession(ctx, topic)
			return stepErr
		})
	} else {
		transcript := sharedcmder.NewTranscript(out, board, env.Interactive)

		result, err = env.Client.InitSessionStream(ctx, topic, client.InitHandlers{
			OnStart: func(s client.InitStart) {
				board.Start(s.Nodes, s.Edges, s.RootNodeID)
				root = s.RootNodeID
				env.Logger.Debug("graph skeleton received", "nodes", len(s.Nodes), "edges", len(s.Edges))
			},
			OnKnowledgeStart: func(k client.KnowledgeStart) {
				transcript.Knowledge(k.Node, k.Edge)
			},
			OnToken: transcript.Token,
		})
		transcript.Finish()
	}
	if err != nil {
		return fmt.Errorf("initializing session: %w", err)
	}
	board.Settle(result.Nodes, result.Edges)

	env.Remember(result.Session.ID, result.Session.Topic)
	printResult(out, result.Session, board)

	if c.render {
		if n, ok := rootNode(board.Nodes(), root); ok {
			sharedcmder.RenderNode(out, n)
		}
	}
	return nil
}

func printResult(w io.Writer, session graph.Session, board *graph.Board) {
	nodes, edges := board.Nodes(), board.Edges()

	fmt.Fprintf(w, "\n  %s %s %s\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render("Session:"),
		cliui.IDStyle.Render(session.ID),
	)
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Topic:  "), cliui.ValueStyle.Render(session.Topic))
	fmt.Fprintf(w, "  %s %s\n\n",
		cliui.KeyStyle.Render("Graph:  "),
		cliui.DimStyle.Render(fmt.Sprintf("%d nodes, %d edges", len(nodes), len(edges))),
	)
	sharedcmder.PrintNodes(w, nodes)
	fmt.Fprintln(w)
}

// rootNode finds the announced root, falling back to the first core node.
func rootNode(nodes []graph.Node, id string) (graph.Node, bool) {
	for _, n := range nodes {
		if id != "" && n.ID == id {
			return n, true
		}
	}
	for _, n := range nodes {
		if n.NodeType == graph.NodeCore {
			return n, true
		}
	}
	return graph.Node{}, false
}
