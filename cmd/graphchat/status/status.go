// Package statuscmder provides the status command for displaying the
// remembered session and whether the configured server is reachable.
package statuscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const statusLongDesc string = `Show the remembered session and server health.

Reads the graphchat home (--config-dir, $GRAPHCHAT_HOME, ./.graphchat/ or
~/.graphchat/, in that order) for the session
that "graphchat ask" uses by default, then checks the configured server.
--forget clears the remembered session so the next ask requires --session.

Examples:
  graphchat status
  graphchat status --forget`

const statusShortDesc string = "Show the current session and server health"

type statusCommander struct {
	flags  sharedcmder.ClientFlags
	forget bool
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
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
	cmd.Flags().BoolVar(&cmder.forget, "forget", false, "Forget the remembered session")

	return cmd
}

func (c *statusCommander) run(cmd *cobra.Command, env *sharedcmder.Env) error {
	out := cmd.OutOrStdout()

	if c.forget {
		if err := env.Dotdir.ClearState(env.ConfigDir); err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s Forgot the remembered session\n", cliui.SuccessMark)
		return nil
	}

	home, err := env.Dotdir.Resolve(env.ConfigDir)
	if err != nil {
		return err
	}

	state, err := env.Dotdir.LoadState(env.ConfigDir)
	if err != nil {
		return fmt.Errorf("loading last session: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s  %s %s\n",
		cliui.KeyStyle.Render("Home:   "),
		cliui.ValueStyle.Render(home.Path),
		cliui.DimStyle.Render("("+string(home.Source)+")"),
	)
	if state == nil {
		fmt.Fprintf(out, "  %s No session yet. Next ask needs --session or a \"graphchat init\".\n", cliui.DimStyle.Render("●"))
	} else {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Session:"), cliui.IDStyle.Render(state.SessionID))
		if state.Topic != "" {
			fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Topic:  "), cliui.NameStyle.Render(state.Topic))
		}
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Since:  "), cliui.DimStyle.Render(state.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}

	healthErr := env.Client.Health(cmd.Context())
	fmt.Fprintf(out, "  %s  %s %s\n",
		cliui.KeyStyle.Render("Server: "),
		cliui.Mark(healthErr),
		cliui.ValueStyle.Render(env.Config.Client.APITarget),
	)
	if healthErr != nil {
		fmt.Fprintf(out, "            %s\n", cliui.DimStyle.Render(healthErr.Error()))
	}
	fmt.Fprintln(out)
	return nil
}
