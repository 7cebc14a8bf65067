// Package graphchatcmder is the root of the graphchat command tree.
package graphchatcmder

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	askcmder "github.com/papercomputeco/graphchat/cmd/graphchat/ask"
	configcmder "github.com/papercomputeco/graphchat/cmd/graphchat/config"
	graphcmder "github.com/papercomputeco/graphchat/cmd/graphchat/graph"
	initcmder "github.com/papercomputeco/graphchat/cmd/graphchat/init"
	nodecmder "github.com/papercomputeco/graphchat/cmd/graphchat/node"
	quizcmder "github.com/papercomputeco/graphchat/cmd/graphchat/quiz"
	reviewcmder "github.com/papercomputeco/graphchat/cmd/graphchat/review"
	sessionscmder "github.com/papercomputeco/graphchat/cmd/graphchat/sessions"
	statuscmder "github.com/papercomputeco/graphchat/cmd/graphchat/status"
	uploadcmder "github.com/papercomputeco/graphchat/cmd/graphchat/upload"
	versioncmder "github.com/papercomputeco/graphchat/cmd/version"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const graphchatLongDesc string = `graphchat is a terminal client for the graphchat learning server.

Start a session on a topic, then ask questions against it. The server
answers by growing a concept graph; graphchat streams the new nodes and
their text as they are generated.

  graphchat init <topic>      Start a session and stream its graph
  graphchat ask <question>    Ask within the last session
  graphchat graph             Print the session's graph`

const graphchatShortDesc string = "graphchat - learn by growing a concept graph"

func NewGraphchatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "graphchat",
		Short:         graphchatShortDesc,
		Long:          graphchatLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if f, ok := cmd.OutOrStdout().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				cliui.DisableColor()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml and state.json (default: ./.graphchat or ~/.graphchat)")

	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(sessionscmder.NewSessionsCmd())
	cmd.AddCommand(graphcmder.NewGraphCmd())
	cmd.AddCommand(nodecmder.NewNodeCmd())
	cmd.AddCommand(uploadcmder.NewUploadCmd())
	cmd.AddCommand(reviewcmder.NewReviewCmd())
	cmd.AddCommand(quizcmder.NewQuizCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
