package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/ipc"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient(cmd).GetStatus()
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

var windowsCmd = &cobra.Command{
	Use:     "windows",
	Aliases: []string{"ls"},
	Short:   "List tracked windows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, err := newClient(cmd).ListWindows()
		if err != nil {
			return err
		}
		if ws, _ := cmd.Flags().GetString("workspace"); ws != "" {
			windows = filterWorkspace(windows, ws)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), ipc.WindowsData{Windows: windows})
		}
		printWindows(cmd.OutOrStdout(), windows, isTerminal(os.Stdout))
		return nil
	},
}

func windowCommand(use, short string, run func(*ipc.Client, uint32) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <window-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseWindowID(args[0])
			if err != nil {
				return err
			}
			return run(newClient(cmd), id)
		},
	}
}

var moveCmd = &cobra.Command{
	Use:   "move <window-id> <x> <y>",
	Short: "Move a window's top-left corner",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWindowID(args[0])
		if err != nil {
			return err
		}
		xy, err := parseInts(args[1:]...)
		if err != nil {
			return err
		}
		return newClient(cmd).MoveWindow(id, xy[0], xy[1])
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <window-id> <width> <height>",
	Short: "Resize a window",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWindowID(args[0])
		if err != nil {
			return err
		}
		wh, err := parseInts(args[1:]...)
		if err != nil {
			return err
		}
		if wh[0] <= 0 || wh[1] <= 0 {
			return fmt.Errorf("width and height must be positive")
		}
		return newClient(cmd).ResizeWindow(id, wh[0], wh[1])
	},
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace <name>",
	Short: "Switch to a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).FocusWorkspace(args[0])
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <window-id> <workspace>",
	Short: "Move a window to another workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWindowID(args[0])
		if err != nil {
			return err
		}
		return newClient(cmd).MoveWindowToWorkspace(id, args[1])
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the daemon to reload its config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).Reload()
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print JSON")
	windowsCmd.Flags().Bool("json", false, "Print JSON")
	windowsCmd.Flags().String("workspace", "", "Only list windows on this workspace")

	rootCmd.AddCommand(
		statusCmd,
		windowsCmd,
		windowCommand("focus", "Focus a window, switching to its workspace", (*ipc.Client).FocusWindow),
		windowCommand("close", "Ask a window to close", (*ipc.Client).CloseWindow),
		windowCommand("hide", "Park a window off screen", (*ipc.Client).HideWindow),
		windowCommand("unhide", "Restore a hidden window", (*ipc.Client).UnhideWindow),
		moveCmd,
		resizeCmd,
		workspaceCmd,
		sendCmd,
		reloadCmd,
	)
}

func filterWorkspace(windows []ipc.WindowInfo, name string) []ipc.WindowInfo {
	out := []ipc.WindowInfo{}
	for _, w := range windows {
		if w.Workspace == name {
			out = append(out, w)
		}
	}
	return out
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	names := make([]string, len(s.Workspaces))
	for i, name := range s.Workspaces {
		if name == s.FocusedWorkspace {
			name = "[" + name + "]"
		}
		names[i] = name
	}
	fmt.Fprintf(w, "workspaces: %s\n", strings.Join(names, " "))
	fmt.Fprintf(w, "windows:    %d (%d hidden)\n", s.WindowCount, s.HiddenCount)
	fmt.Fprintf(w, "uptime:     %s\n", time.Duration(s.UptimeSeconds)*time.Second)
}

func windowRows(windows []ipc.WindowInfo) [][]string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		state := "tiled"
		if w.Floating {
			state = "floating"
		}
		if w.Hidden {
			state += ",hidden"
		}
		rows = append(rows, []string{
			fmt.Sprintf("0x%x", w.ID),
			w.Workspace,
			state,
			fmt.Sprintf("%dx%d+%d+%d", w.Width, w.Height, w.X, w.Y),
			w.Title,
		})
	}
	return rows
}

var windowHeaders = []string{"ID", "WORKSPACE", "STATE", "GEOMETRY", "TITLE"}

func printWindows(w io.Writer, windows []ipc.WindowInfo, styled bool) {
	rows := windowRows(windows)
	if !styled {
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no windows"))
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(windowHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(1)
			}
			if row >= 0 && row < len(rows) && strings.Contains(rows[row][col], "hidden") {
				return dimStyle.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	fmt.Fprintln(w, t.Render())
}

