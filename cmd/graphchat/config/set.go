package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Sets the given key in config.toml, creating the file when needed.
Values are validated: booleans must parse as true/false and
client.timeout must be a Go duration such as 90s or 5m.

Examples:
  graphchat config set client.api_target http://localhost:8000
  graphchat config set client.timeout 2m
  graphchat config set stream.strict_tail true
  graphchat config set log.file ~/.graphchat/graphchat.log`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set <key> <value>",
		Short:             setShortDesc,
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args[0], args[1])
		},
	}

	return cmd
}

func runSet(cmd *cobra.Command, key, value string) error {
	cfger, err := openConfiger(cmd, key)
	if err != nil {
		return err
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
