package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nachoupps/chessy/internal/client"
)

var (
	cfg       *Config
	apiClient *client.Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "chessy",
		Short: "CLI tool for the chessy API",
		Long: `chessy is a CLI tool for a shared chess scoreboard server.

It supports player registration, game management, playing moves against a
live game as either colour, and watching a game as it progresses.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			apiClient = client.NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CHESSY_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
