package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nachoupps/chessy/internal/access"
	"github.com/nachoupps/chessy/internal/client"
	"github.com/nachoupps/chessy/internal/dependencies/clock"
	"github.com/nachoupps/chessy/internal/dependencies/random"
	"github.com/nachoupps/chessy/internal/model"
)

func newWatchCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a game as an observer",
		Long: `watch follows a game as an observer, reprinting the board whenever
the position changes, until the game concludes. Without --game it follows
the game list instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameID == "" {
				return watchLobby(cmd.Context())
			}
			return watchGame(cmd.Context(), model.GameID(gameID))
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game id to watch")

	return cmd
}

func watchGame(ctx context.Context, id model.GameID) error {
	logger := newCLILogger(cfg.Verbose)
	sess, err := client.Open(ctx, apiClient, clock.New(), random.New(), logger, id, access.RoleObserver, "")
	if err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess.OnUpdate(func(g *model.Game) {
		fmt.Println()
		printBoardFEN(g.FEN)
	})
	sess.OnConcluded(func(g *model.Game) {
		fmt.Printf("\nGame over: %s\n", describeResult(g))
		cancel()
	})

	printBoardFEN(sess.Game().FEN)
	if sess.Game().Concluded() {
		fmt.Printf("Game over: %s\n", describeResult(sess.Game()))
		return nil
	}

	sess.Poller().Run(watchCtx)
	return nil
}

func watchLobby(ctx context.Context) error {
	logger := newCLILogger(cfg.Verbose)
	out := NewOutput(cfg.Output)

	poller := client.NewLobbyPoller(apiClient, logger)
	poller.OnChange = func(games []*model.Game) {
		fmt.Println()
		out.Print(games)
	}

	games, err := apiClient.ListGames(ctx)
	if err != nil {
		return err
	}
	out.Print(games)

	poller.Run(ctx)
	return nil
}
