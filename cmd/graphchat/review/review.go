// Package reviewcmder provides the review command, which asks the server to
// summarize a session's knowledge gaps.
package reviewcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const reviewShortDesc string = "Review a session's gaps and next steps"

type reviewCommander struct {
	flags     sharedcmder.ClientFlags
	sessionID string
}

func NewReviewCmd() *cobra.Command {
	cmder := &reviewCommander{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: reviewShortDesc,
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

	return cmd
}

func (c *reviewCommander) run(cmd *cobra.Command, env *sharedcmder.Env) error {
	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	review, err := env.Client.GenerateReview(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("generating review: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s\n  %s\n", cliui.KeyStyle.Render("Summary"), cliui.ValueStyle.Render(review.Summary))

	if len(review.Gaps) > 0 {
		fmt.Fprintf(out, "\n  %s\n", cliui.KeyStyle.Render("Gaps"))
		for _, g := range review.Gaps {
			fmt.Fprintf(out, "  %s %s\n", cliui.FailMark, g)
		}
	}
	if len(review.Actions) > 0 {
		fmt.Fprintf(out, "\n  %s\n", cliui.KeyStyle.Render("Next"))
		for i, a := range review.Actions {
			fmt.Fprintf(out, "  %s %s\n", cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)), a)
		}
	}
	fmt.Fprintln(out)
	return nil
}
