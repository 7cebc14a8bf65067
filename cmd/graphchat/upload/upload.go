// Package uploadcmder provides the upload command for attaching study
// material to a session.
package uploadcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const uploadLongDesc string = `Attach a UTF-8 .txt or .md file to a session.

The server uses uploaded material as extra context for later questions.

Examples:
  graphchat upload notes.md
  graphchat upload --session 6f1c chapter3.txt`

const uploadShortDesc string = "Upload study material to a session"

type uploadCommander struct {
	flags     sharedcmder.ClientFlags
	sessionID string
}

func NewUploadCmd() *cobra.Command {
	cmder := &uploadCommander{}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: uploadShortDesc,
		Long:  uploadLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := sharedcmder.Load(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			return cmder.run(cmd, env, args[0])
		},
	}

	sharedcmder.AddClientFlags(cmd, &cmder.flags)
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: last session)")

	return cmd
}

func (c *uploadCommander) run(cmd *cobra.Command, env *sharedcmder.Env, path string) error {
	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening material: %w", err)
	}
	defer f.Close()

	id, err := env.Client.UploadMaterial(cmd.Context(), sessionID, path, f)
	if err != nil {
		return fmt.Errorf("uploading material: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s Uploaded %s %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(path),
		cliui.DimStyle.Render("("+id+")"),
	)
	return nil
}
