package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/treetile/internal/ipc"
)

const (
	ServerName    = "treetile"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	FocusWindow(id uint32) error
	CloseWindow(id uint32) error
	HideWindow(id uint32) error
	UnhideWindow(id uint32) error
	MoveWindow(id uint32, x, y int) error
	ResizeWindow(id uint32, width, height int) error
	FocusWorkspace(name string) error
	MoveWindowToWorkspace(id uint32, workspace string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running daemon's window commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    zerolog.Logger
}

// NewServer creates an MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon, logger zerolog.Logger) *Server {
	s := &Server{
		daemon: daemon,
		logger: logger.With().Str("component", "mcp").Logger(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the focused workspace, all workspace names and how many windows are tracked and hidden.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List tracked windows with their id, title, workspace, floating and hidden state and geometry. Optionally filter by workspace or hidden state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise and focus a window. Switches to the window's workspace first and restores it if it was hidden.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask a window to close, as if its close button was pressed. The application may still refuse.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_window",
		Description: "Hide a window by parking it off screen. Its position relative to its workspace is remembered.",
	}, s.handleHideWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unhide_window",
		Description: "Restore a hidden window to its remembered position.",
	}, s.handleUnhideWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner to the given root window coordinates.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Width and height must be positive.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_workspace",
		Description: "Switch to a workspace: windows of the current workspace are hidden and the target's windows restored.",
	}, s.handleFocusWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_workspace",
		Description: "Move a window to another workspace. It is hidden unless the target workspace is focused.",
	}, s.handleMoveToWorkspace)
}
