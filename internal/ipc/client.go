package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/treetile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload interface{}) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.send(CommandReload, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.send(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// ListWindows retrieves every tracked window.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	resp, err := c.send(CommandListWindows, nil)
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// FocusWindow raises and activates a window.
func (c *Client) FocusWindow(id uint32) error {
	_, err := c.send(CommandFocusWindow, WindowPayload{WindowID: id})
	return err
}

// CloseWindow asks a window to close.
func (c *Client) CloseWindow(id uint32) error {
	_, err := c.send(CommandCloseWindow, WindowPayload{WindowID: id})
	return err
}

// HideWindow parks a window off screen.
func (c *Client) HideWindow(id uint32) error {
	_, err := c.send(CommandHideWindow, WindowPayload{WindowID: id})
	return err
}

// UnhideWindow restores a hidden window.
func (c *Client) UnhideWindow(id uint32) error {
	_, err := c.send(CommandUnhideWindow, WindowPayload{WindowID: id})
	return err
}

// MoveWindow moves a window's top-left corner.
func (c *Client) MoveWindow(id uint32, x, y int) error {
	_, err := c.send(CommandMoveWindow, MovePayload{WindowID: id, X: x, Y: y})
	return err
}

// ResizeWindow resizes a window.
func (c *Client) ResizeWindow(id uint32, width, height int) error {
	_, err := c.send(CommandResizeWindow, ResizePayload{WindowID: id, Width: width, Height: height})
	return err
}

// FocusWorkspace switches to the named workspace.
func (c *Client) FocusWorkspace(name string) error {
	_, err := c.send(CommandFocusWorkspace, WorkspacePayload{Name: name})
	return err
}

// MoveWindowToWorkspace sends a window to another workspace.
func (c *Client) MoveWindowToWorkspace(id uint32, workspace string) error {
	_, err := c.send(CommandMoveToWorkspace, MoveToWorkspacePayload{WindowID: id, Workspace: workspace})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
