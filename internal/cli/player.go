package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nachoupps/chessy/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerClearCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered players",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := apiClient.ListPlayers(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(players)
			return nil
		},
	}
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, pin string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			player, err := apiClient.RegisterPlayer(cmd.Context(), name, pin)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(player)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&pin, "pin", "", "Four digit pin (defaults to "+model.DefaultPin+")")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := apiClient.GetPlayer(cmd.Context(), model.PlayerID(args[0]))
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(player)
			return nil
		},
	}
}

func newPlayerClearCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.ClearPlayers(cmd.Context(), pin); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("All players deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Admin pin (required)")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
