// Package configcmder provides the config command for managing persistent
// graphchat configuration stored in the .graphchat/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/graphchat/pkg/cliui"
	"github.com/papercomputeco/graphchat/pkg/config"
)

const configLongDesc string = `Manage persistent graphchat configuration.

Configuration is stored as config.toml in the .graphchat/ directory and
provides default values for command flags. CLI flags and GRAPHCHAT_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, client.timeout,
  stream.strict_tail, stream.record_dir,
  log.json, log.debug, log.file

Examples:
  graphchat config set client.api_target http://graphchat.internal:8000
  graphchat config set stream.record_dir ./streams
  graphchat config get client.timeout
  graphchat config list`

const configShortDesc string = "Manage persistent graphchat configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// openConfiger validates key (when non-empty), resolves the config file and
// prints its location.
func openConfiger(cmd *cobra.Command, key string) (*config.Configer, error) {
	if key != "" && !config.IsValidConfigKey(key) {
		return nil, fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	printTarget(cmd.OutOrStdout(), cfger.GetTarget())
	return cfger, nil
}

func printTarget(w io.Writer, target string) {
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(target),
	)
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
