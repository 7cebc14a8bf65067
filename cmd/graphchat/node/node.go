// Package nodecmder provides the node command with subcommands that update
// a single node's placement and mastery.
package nodecmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/client"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const nodeLongDesc string = `Update a node of a session.

Examples:
  graphchat node position n-3 120 340
  graphchat node position n-3 120 340 --width 480
  graphchat node mastery n-3 0.8`

const nodeShortDesc string = "Update a node's position or mastery"

type nodeCommander struct {
	positionFlags sharedcmder.ClientFlags
	masteryFlags  sharedcmder.ClientFlags
	sessionID     string
	width         float64
}

func NewNodeCmd() *cobra.Command {
	cmder := &nodeCommander{}

	cmd := &cobra.Command{
		Use:   "node",
		Short: nodeShortDesc,
		Long:  nodeLongDesc,
	}

	cmd.PersistentFlags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: last session)")

	position := &cobra.Command{
		Use:   "position <node-id> <x> <y>",
		Short: "Move a node on the canvas",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				w := cmder.width
				pos.Width = &w
			}

			return cmder.withSession(cmd, func(env *sharedcmder.Env, sessionID string) error {
				return env.Client.UpdateNodePosition(cmd.Context(), sessionID, args[0], pos)
			})
		},
	}
	sharedcmder.AddClientFlags(position, &cmder.positionFlags)
	position.Flags().Float64Var(&cmder.width, "width", 0, "New node width (80 < width <= 1200)")

	mastery := &cobra.Command{
		Use:   "mastery <node-id> <0..1>",
		Short: "Record how well you know a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid mastery %q: %w", args[1], err)
			}

			return cmder.withSession(cmd, func(env *sharedcmder.Env, sessionID string) error {
				return env.Client.UpdateNodeMastery(cmd.Context(), sessionID, args[0], m)
			})
		},
	}

	sharedcmder.AddClientFlags(mastery, &cmder.masteryFlags)

	cmd.AddCommand(position, mastery)
	return cmd
}

func (c *nodeCommander) withSession(cmd *cobra.Command, fn func(env *sharedcmder.Env, sessionID string) error) error {
	env, err := sharedcmder.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	if err := fn(env, sessionID); err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s Updated\n", cliui.SuccessMark)
	return nil
}

func parsePosition(xs, ys string) (client.Position, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return client.Position{}, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return client.Position{}, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return client.Position{X: x, Y: y}, nil
}
