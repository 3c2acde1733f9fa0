package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: "Start the MCP server on stdio. Tool calls are forwarded to the running\n" +
		"daemon. Designed to be invoked by MCP clients, for example:\n\n" +
		"  claude mcp add treetile -- treetile mcp serve",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// stdout carries the protocol; logs go to a file only.
		logger, closeLog, err := newFileLogger(res.Config)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer closeLog()

		client := newClient(cmd)
		if err := client.Ping(); err != nil {
			logger.Warn().Err(err).Msg("daemon not reachable, tool calls will fail until it starts")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return mcp.NewServer(client, logger).Run(ctx)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
