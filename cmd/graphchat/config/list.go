package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/graphchat/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays every configuration key and its value from config.toml, or the
built-in default when unset.

Examples:
  graphchat config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cfger, err := openConfiger(cmd, "")
	if err != nil {
		return err
	}

	keys := config.ValidConfigKeys()
	maxLen := 0
	for _, k := range keys {
		maxLen = max(maxLen, len(k))
	}

	out := cmd.OutOrStdout()
	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		if value == "" {
			fmt.Fprintf(out, "  %-*s = <not set>\n", maxLen, key)
		} else {
			fmt.Fprintf(out, "  %-*s = %q\n", maxLen, key, value)
		}
	}
	fmt.Fprintln(out)

	return nil
}
