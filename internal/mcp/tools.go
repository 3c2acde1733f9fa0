package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/treetile/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("get_status: %w", err)
	}
	return nil, StatusOutput{
		FocusedWorkspace: status.FocusedWorkspace,
		Workspaces:       status.Workspaces,
		WindowCount:      status.WindowCount,
		HiddenCount:      status.HiddenCount,
		UptimeSeconds:    status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}

	out := ListWindowsOutput{
		FocusedWorkspace: status.FocusedWorkspace,
		Windows:          []ipc.WindowInfo{},
	}
	for _, w := range windows {
		if args.Workspace != "" && w.Workspace != args.Workspace {
			continue
		}
		if args.Hidden != nil && w.Hidden != *args.Hidden {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	s.logger.Debug().Int("count", len(out.Windows)).Msg("list_windows")
	return nil, out, nil
}

func (s *Server) windowAction(action string, id uint32, fn func(uint32) error) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if id == 0 {
		return nil, ActionOutput{}, fmt.Errorf("%s: window_id is required", action)
	}
	if err := fn(id); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("%s: %w", action, err)
	}
	s.logger.Info().Str("action", action).Uint32("window_id", id).Msg("tool call")
	return nil, ActionOutput{OK: true, Action: action, WindowID: id}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("focus_window", args.WindowID, s.daemon.FocusWindow)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("close_window", args.WindowID, s.daemon.CloseWindow)
}

func (s *Server) handleHideWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("hide_window", args.WindowID, s.daemon.HideWindow)
}

func (s *Server) handleUnhideWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("unhide_window", args.WindowID, s.daemon.UnhideWindow)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("move_window", args.WindowID, func(id uint32) error {
		return s.daemon.MoveWindow(id, args.X, args.Y)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ActionOutput{}, fmt.Errorf("resize_window: width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	return s.windowAction("resize_window", args.WindowID, func(id uint32) error {
		return s.daemon.ResizeWindow(id, args.Width, args.Height)
	})
}

func (s *Server) handleFocusWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Name == "" {
		return nil, ActionOutput{}, fmt.Errorf("focus_workspace: name is required")
	}
	if err := s.daemon.FocusWorkspace(args.Name); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("focus_workspace: %w", err)
	}
	s.logger.Info().Str("workspace", args.Name).Msg("tool call: focus_workspace")
	return nil, ActionOutput{OK: true, Action: "focus_workspace", Target: args.Name}, nil
}

func (s *Server) handleMoveToWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveToWorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Workspace == "" {
		return nil, ActionOutput{}, fmt.Errorf("move_to_workspace: workspace is required")
	}
	_, out, err := s.windowAction("move_to_workspace", args.WindowID, func(id uint32) error {
		return s.daemon.MoveWindowToWorkspace(id, args.Workspace)
	})
	if err != nil {
		return nil, ActionOutput{}, err
	}
	out.Target = args.Workspace
	return nil, out, nil
}
