package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandListWindows     CommandType = "LIST_WINDOWS"
	CommandFocusWindow     CommandType = "FOCUS_WINDOW"
	CommandCloseWindow     CommandType = "CLOSE_WINDOW"
	CommandHideWindow      CommandType = "HIDE_WINDOW"
	CommandUnhideWindow    CommandType = "UNHIDE_WINDOW"
	CommandMoveWindow      CommandType = "MOVE_WINDOW"
	CommandResizeWindow    CommandType = "RESIZE_WINDOW"
	CommandFocusWorkspace  CommandType = "FOCUS_WORKSPACE"
	CommandMoveToWorkspace CommandType = "MOVE_TO_WORKSPACE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	FocusedWorkspace string   `json:"focused_workspace"`
	Workspaces       []string `json:"workspaces"`
	WindowCount      int      `json:"window_count"`
	HiddenCount      int      `json:"hidden_count"`
	UptimeSeconds    int64    `json:"uptime_seconds"`
	DaemonRunning    bool     `json:"daemon_running"`
}

// WindowInfo describes one tracked window.
type WindowInfo struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Workspace string `json:"workspace"`
	Floating  bool   `json:"floating"`
	Hidden    bool   `json:"hidden"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	WindowID uint32 `json:"window_id"`
}

type MovePayload struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type ResizePayload struct {
	WindowID uint32 `json:"window_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type WorkspacePayload struct {
	Name string `json:"name"`
}

type MoveToWorkspacePayload struct {
	WindowID  uint32 `json:"window_id"`
	Workspace string `json:"workspace"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
