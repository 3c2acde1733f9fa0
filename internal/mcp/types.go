package mcp

import "github.com/1broseidon/treetile/internal/ipc"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Only list windows on this workspace"`
	Hidden    *bool  `json:"hidden,omitempty" jsonschema:"When set, only list windows whose hidden state matches"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	FocusedWorkspace string           `json:"focused_workspace"`
	Windows          []ipc.WindowInfo `json:"windows"`
}

// WindowInput selects a window by id.
type WindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,X11 window id as reported by list_windows"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,X11 window id as reported by list_windows"`
	X        int    `json:"x" jsonschema:"required,New left edge in root window coordinates"`
	Y        int    `json:"y" jsonschema:"required,New top edge in root window coordinates"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,X11 window id as reported by list_windows"`
	Width    int    `json:"width" jsonschema:"required,New width in pixels"`
	Height   int    `json:"height" jsonschema:"required,New height in pixels"`
}

// WorkspaceInput is the input for the focus_workspace tool.
type WorkspaceInput struct {
	Name string `json:"name" jsonschema:"required,Workspace name; created when it does not exist"`
}

// MoveToWorkspaceInput is the input for the move_to_workspace tool.
type MoveToWorkspaceInput struct {
	WindowID  uint32 `json:"window_id" jsonschema:"required,X11 window id as reported by list_windows"`
	Workspace string `json:"workspace" jsonschema:"required,Target workspace name"`
}

// ActionOutput reports the result of a window or workspace command.
type ActionOutput struct {
	OK       bool   `json:"ok"`
	Action   string `json:"action"`
	WindowID uint32 `json:"window_id,omitempty"`
	Target   string `json:"target,omitempty"`
}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	FocusedWorkspace string   `json:"focused_workspace"`
	Workspaces       []string `json:"workspaces"`
	WindowCount      int      `json:"window_count"`
	HiddenCount      int      `json:"hidden_count"`
	UptimeSeconds    int64    `json:"uptime_seconds"`
}
