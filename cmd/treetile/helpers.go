package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/logging"
	"github.com/1broseidon/treetile/internal/runtimepath"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func configPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.LoadResult, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(path)
}

func newClient(cmd *cobra.Command) *ipc.Client {
	socket, _ := cmd.Flags().GetString("socket")
	if socket == "" {
		return ipc.NewClient()
	}
	return ipc.NewClientWithSocket(socket)
}

// newLogger logs to stderr when it is a terminal. Otherwise, and whenever
// log_file is set, it logs to a file.
func newLogger(cfg *config.Config) (zerolog.Logger, func() error, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	opts := []logging.Option{logging.WithLevel(level)}
	if isTerminal(os.Stderr) {
		opts = append(opts, logging.WithConsole(os.Stderr))
	}
	file := cfg.LogFile
	if file == "" && !isTerminal(os.Stderr) {
		if file, err = runtimepath.LogPath(); err != nil {
			return zerolog.Nop(), nil, err
		}
	}
	if file != "" {
		opts = append(opts, logging.WithFile(file))
	}
	return logging.New(opts...)
}

// newFileLogger never writes to the console.
func newFileLogger(cfg *config.Config) (zerolog.Logger, func() error, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	file := cfg.LogFile
	if file == "" {
		if file, err = runtimepath.LogPath(); err != nil {
			return zerolog.Nop(), nil, err
		}
	}
	return logging.New(logging.WithLevel(level), logging.WithFile(file))
}

func parseWindowID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func parseInts(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
