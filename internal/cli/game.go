package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nachoupps/chessy/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game management commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameArchiveCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameClearCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := apiClient.ListGames(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(games)
			return nil
		},
	}
}

func newGameCreateCmd() *cobra.Command {
	var name, white, black, mode string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || white == "" || black == "" {
				return fmt.Errorf("--name, --white, and --black are required")
			}

			game, err := apiClient.CreateGame(cmd.Context(), name, white, black, model.Mode(mode))
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(game)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().StringVar(&white, "white", "", "Name of the player with the white pieces (required)")
	cmd.Flags().StringVar(&black, "black", "", "Name of the player with the black pieces (required)")
	cmd.Flags().StringVar(&mode, "mode", "", "Game mode: ranked, training, simulation")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("white")
	_ = cmd.MarkFlagRequired("black")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := apiClient.GetGame(cmd.Context(), model.GameID(args[0]))
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(game)
			return nil
		},
	}
}

func newGameArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <game-id>",
		Short: "Archive a concluded game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archived := true
			game, err := apiClient.UpdateGame(cmd.Context(), model.GameID(args[0]), model.GameUpdate{Archived: &archived})
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(game)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.DeleteGame(cmd.Context(), model.GameID(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}

func newGameClearCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all games",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.ClearGames(cmd.Context(), pin); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("All games deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Admin pin (required)")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
