// Package graphcmder provides the graph command for printing a session's
// full concept graph.
package graphcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
	"github.com/papercomputeco/graphchat/pkg/graph"
)

const graphLongDesc string = `Print the nodes and edges of a session.

Without --session the last session is used. --node renders one node's
content as markdown instead of the listing.

Examples:
  graphchat graph
  graphchat graph --session 6f1c --node n-3`

const graphShortDesc string = "Print a session's graph"

type graphCommander struct {
	flags     sharedcmder.ClientFlags
	sessionID string
	nodeID    string
}

func NewGraphCmd() *cobra.Command {
	cmder := &graphCommander{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: graphShortDesc,
		Long:  graphLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := sharedcmder.Load(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			return cmder.run(cmd, env)
		},
	}

	sharedcmder.AddClientFlags(cmd, &cmder.flags)
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: last session)")
	cmd.Flags().StringVarP(&cmder.nodeID, "node", "n", "", "Render a single node")

	return cmd
}

func (c *graphCommander) run(cmd *cobra.Command, env *sharedcmder.Env) error {
	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	data, err := env.Client.GetGraph(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("fetching graph: %w", err)
	}

	out := cmd.OutOrStdout()
	if c.nodeID != "" {
		for _, n := range data.Nodes {
			if n.ID == c.nodeID {
				sharedcmder.RenderNode(out, n)
				return nil
			}
		}
		return fmt.Errorf("node %q not found in session %s", c.nodeID, sessionID)
	}

	titles := make(map[string]string, len(data.Nodes))
	for _, n := range data.Nodes {
		titles[n.ID] = n.Title
	}

	fmt.Fprintf(out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Session:"), cliui.IDStyle.Render(sessionID))
	sharedcmder.PrintNodes(out, data.Nodes)

	if len(data.Edges) > 0 {
		fmt.Fprintf(out, "\n  %s\n", cliui.KeyStyle.Render("Edges:"))
		for _, e := range data.Edges {
			fmt.Fprintf(out, "  %s → %s %s\n",
				cliui.ValueStyle.Render(label(titles, e.SourceNodeID)),
				cliui.ValueStyle.Render(label(titles, e.TargetNodeID)),
				cliui.DimStyle.Render(edgeNote(e)),
			)
		}
	}
	fmt.Fprintln(out)
	return nil
}

func label(titles map[string]string, id string) string {
	if t := titles[id]; t != "" {
		return t
	}
	return id
}

func edgeNote(e graph.Edge) string {
	if e.Question != "" {
		return "(" + e.Question + ")"
	}
	return "(" + string(e.EdgeType) + ")"
}
