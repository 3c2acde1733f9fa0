package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the window manager daemon",
	Long: "Connect to the X server, track windows and serve commands on the\n" +
		"daemon socket. SIGHUP reloads the config; SIGINT and SIGTERM restore\n" +
		"hidden windows and exit.",
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(res.Config)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	logger.Info().
		Str("config", res.Path).
		Bool("config_exists", res.Exists).
		Strs("workspaces", res.Config.Workspaces).
		Int("hotkeys", len(res.Config.Hotkeys)).
		Msg("configuration loaded")

	return daemon.Run(context.Background(), daemon.Options{
		ConfigPath: res.Path,
		Config:     res.Config,
		Logger:     logger,
	})
}
