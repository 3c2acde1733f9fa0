package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "treetile",
	Short: "Tiling window management for X11",
	Long: "treetile tracks X11 windows in a tree of workspaces, hides windows of\n" +
		"inactive workspaces by parking them off screen and exposes window\n" +
		"commands over a local socket and MCP.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/treetile/config.yaml)")
	rootCmd.PersistentFlags().String("socket", "", "Daemon socket (default: $XDG_RUNTIME_DIR/treetile.sock)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
