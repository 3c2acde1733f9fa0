package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Controller executes IPC commands against the running daemon.
type Controller interface {
	Status() (StatusData, error)
	Windows() ([]WindowInfo, error)
	FocusWindow(id uint32) error
	CloseWindow(id uint32) error
	HideWindow(id uint32) error
	UnhideWindow(id uint32) error
	MoveWindow(id uint32, x, y int) error
	ResizeWindow(id uint32, width, height int) error
	FocusWorkspace(name string) error
	MoveWindowToWorkspace(id uint32, workspace string) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       zerolog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server listening on socketPath.
func NewServer(socketPath string, ctrl Controller, logger zerolog.Logger) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger.With().Str("component", "ipc").Logger(),
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send response")
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug().Str("command", string(req.Command)).Msg("IPC request")

	switch req.Command {
	case CommandReload:
		return s.result(s.ctrl.Reload(), "reload")
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandFocusWindow:
		return s.withWindow(req.Payload, "focus", s.ctrl.FocusWindow)
	case CommandCloseWindow:
		return s.withWindow(req.Payload, "close", s.ctrl.CloseWindow)
	case CommandHideWindow:
		return s.withWindow(req.Payload, "hide", s.ctrl.HideWindow)
	case CommandUnhideWindow:
		return s.withWindow(req.Payload, "unhide", s.ctrl.UnhideWindow)
	case CommandMoveWindow:
		var p MovePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
		}
		return s.result(s.ctrl.MoveWindow(p.WindowID, p.X, p.Y), "move window")
	case CommandResizeWindow:
		var p ResizePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
		}
		if p.Width <= 0 || p.Height <= 0 {
			return NewErrorResponse("width and height must be positive")
		}
		return s.result(s.ctrl.ResizeWindow(p.WindowID, p.Width, p.Height), "resize window")
	case CommandFocusWorkspace:
		var p WorkspacePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid workspace payload: %v", err))
		}
		if p.Name == "" {
			return NewErrorResponse("name is required")
		}
		return s.result(s.ctrl.FocusWorkspace(p.Name), "focus workspace")
	case CommandMoveToWorkspace:
		var p MoveToWorkspacePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid move-to-workspace payload: %v", err))
		}
		if p.Workspace == "" {
			return NewErrorResponse("workspace is required")
		}
		return s.result(s.ctrl.MoveWindowToWorkspace(p.WindowID, p.Workspace), "move window to workspace")
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) withWindow(payload json.RawMessage, action string, fn func(uint32) error) *Response {
	var p WindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", action, err))
	}
	if p.WindowID == 0 {
		return NewErrorResponse("window_id is required")
	}
	return s.result(fn(p.WindowID), action+" window")
}

func (s *Server) result(err error, action string) *Response {
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", action, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status, err := s.ctrl.Status()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DaemonRunning = true

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows() *Response {
	windows, err := s.ctrl.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	if windows == nil {
		windows = []WindowInfo{}
	}

	resp, _ := NewOKResponse(WindowsData{Windows: windows})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
