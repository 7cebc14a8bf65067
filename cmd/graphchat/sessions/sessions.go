// Package sessionscmder provides the sessions command for listing recent
// learning sessions.
package sessionscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const sessionsLongDesc string = `List recent learning sessions, newest first.

The session remembered as the default for "graphchat ask" is marked.

Examples:
  graphchat sessions
  graphchat sessions --limit 10`

const sessionsShortDesc string = "List recent sessions"

type sessionsCommander struct {
	flags sharedcmder.ClientFlags
	limit int
}

func NewSessionsCmd() *cobra.Command {
	cmder := &sessionsCommander{}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: sessionsShortDesc,
		Long:  sessionsLongDesc,
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
	cmd.Flags().IntVarP(&cmder.limit, "limit", "l", 50, "Maximum number of sessions to list")

	return cmd
}

func (c *sessionsCommander) run(cmd *cobra.Command, env *sharedcmder.Env) error {
	sessions, err := env.Client.ListSessions(cmd.Context(), c.limit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintf(out, "  %s No sessions yet. Start one with \"graphchat init <topic>\".\n", cliui.DimStyle.Render("●"))
		return nil
	}

	current, _ := env.SessionID("")
	for _, s := range sessions {
		marker := " "
		if s.ID == current {
			marker = cliui.SuccessMark
		}
		fmt.Fprintf(out, "%s %s  %s  %s\n",
			marker,
			cliui.IDStyle.Render(s.ID),
			cliui.NameStyle.Render(s.Topic),
			cliui.DimStyle.Render(s.CreatedAt),
		)
	}
	return nil
}
