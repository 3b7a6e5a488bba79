package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nachoupps/chessy/internal/access"
	"github.com/nachoupps/chessy/internal/client"
	"github.com/nachoupps/chessy/internal/dependencies/clock"
	"github.com/nachoupps/chessy/internal/dependencies/random"
	"github.com/nachoupps/chessy/internal/model"
)

func newPlayCmd() *cobra.Command {
	var gameID, as, pin string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game interactively",
		Long: `play opens an interactive session against a live game.

The session authorizes the chosen colour against the player's pin, keeps
the local board reconciled with the server while waiting, and accepts
commands on stdin:

  move <from> <to> [promotion]   submit a move, e.g. "move e2 e4"
  hint                           suggest a random legal move
  undo                           take back your last move (once per game)
  resign                         concede the game
  draw                           conclude as a draw
  reset                          restart from the initial position
  board                          reprint the board
  quit                           leave the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameID == "" {
				return fmt.Errorf("--game is required")
			}

			role := access.Role(as)
			if role != access.RoleWhite && role != access.RoleBlack {
				return fmt.Errorf("--as must be white or black")
			}

			logger := newCLILogger(cfg.Verbose)
			sess, err := client.Open(cmd.Context(), apiClient, clock.New(), random.New(), logger,
				model.GameID(gameID), role, pin)
			if err != nil {
				return err
			}

			return runPlayLoop(cmd, sess)
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game id (required)")
	cmd.Flags().StringVar(&as, "as", "", "Colour to play: white or black (required)")
	cmd.Flags().StringVar(&pin, "pin", cfg.Pin, "Player pin (env: CHESSY_PIN)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runPlayLoop(cmd *cobra.Command, sess *client.GameSession) error {
	ctx := cmd.Context()
	pollCtx, pollCancel := context.WithCancel(ctx)
	defer pollCancel()

	out := NewOutput(cfg.Output)

	sess.OnUpdate(func(g *model.Game) {
		fmt.Println()
		printBoardFEN(g.FEN)
		fmt.Print("> ")
	})
	sess.OnConcluded(func(g *model.Game) {
		fmt.Printf("\nGame over: %s\n", describeResult(g))
	})
	go sess.Poller().Run(pollCtx)

	printBoardFEN(sess.Game().FEN)
	if opening := sess.Opening(); opening != nil {
		fmt.Printf("Opening: %s\n", opening.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Print("> ")
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil

		case "move":
			if len(fields) < 3 {
				out.PrintError(fmt.Errorf("usage: move <from> <to> [promotion]"))
				break
			}
			promotion := ""
			if len(fields) > 3 {
				promotion = fields[3]
			}
			game, err := sess.Move(ctx, fields[1], fields[2], promotion)
			if err != nil {
				out.PrintError(err)
				break
			}
			printBoardFEN(game.FEN)
			if opening := sess.Opening(); opening != nil {
				fmt.Printf("Opening: %s\n", opening.Name)
			}
			if game.Concluded() {
				fmt.Printf("Game over: %s\n", describeResult(game))
				return nil
			}

		case "hint":
			hint, err := sess.Hint()
			if err != nil {
				out.PrintError(err)
				break
			}
			fmt.Printf("Try: %s\n", hint)

		case "undo":
			game, err := sess.Rollback(ctx)
			if err != nil {
				out.PrintError(err)
				break
			}
			printBoardFEN(game.FEN)

		case "resign":
			game, err := sess.Resign(ctx)
			if err != nil {
				out.PrintError(err)
				break
			}
			fmt.Printf("Game over: %s\n", describeResult(game))
			return nil

		case "draw":
			game, err := sess.Draw(ctx)
			if err != nil {
				out.PrintError(err)
				break
			}
			fmt.Printf("Game over: %s\n", describeResult(game))
			return nil

		case "reset":
			game, err := sess.Reset(ctx)
			if err != nil {
				out.PrintError(err)
				break
			}
			printBoardFEN(game.FEN)

		case "board":
			printBoardFEN(sess.Game().FEN)
			white, black := sess.Captured()
			if len(white) > 0 {
				fmt.Printf("White has taken: %s\n", strings.Join(white, " "))
			}
			if len(black) > 0 {
				fmt.Printf("Black has taken: %s\n", strings.Join(black, " "))
			}

		default:
			out.PrintError(fmt.Errorf("unknown command: %s", fields[0]))
		}

		fmt.Print("> ")
	}

	return scanner.Err()
}

func newCLILogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
