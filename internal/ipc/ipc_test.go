package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type fakeController struct {
	mu      sync.Mutex
	calls   []string
	windows []WindowInfo
	err     error
}

func (f *fakeController) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeController) Status() (StatusData, error) {
	return StatusData{FocusedWorkspace: "1", Workspaces: []string{"1", "2"}, WindowCount: len(f.windows)}, f.record("status")
}

func (f *fakeController) Windows() ([]WindowInfo, error) {
	return f.windows, f.record("windows")
}

func (f *fakeController) FocusWindow(id uint32) error  { return f.record("focus") }
func (f *fakeController) CloseWindow(id uint32) error  { return f.record("close") }
func (f *fakeController) HideWindow(id uint32) error   { return f.record("hide") }
func (f *fakeController) UnhideWindow(id uint32) error { return f.record("unhide") }
func (f *fakeController) MoveWindow(id uint32, x, y int) error {
	return f.record("move")
}
func (f *fakeController) ResizeWindow(id uint32, width, height int) error {
	return f.record("resize")
}
func (f *fakeController) FocusWorkspace(name string) error { return f.record("workspace:" + name) }
func (f *fakeController) MoveWindowToWorkspace(id uint32, workspace string) error {
	return f.record("send:" + workspace)
}
func (f *fakeController) Reload() error { return f.record("reload") }

func startServer(t *testing.T, ctrl Controller) (*Client, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "treetile.sock")
	srv := NewServer(socket, ctrl, zerolog.Nop())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(socket), socket
}

func TestClientServerRoundTrip(t *testing.T) {
	ctrl := &fakeController{windows: []WindowInfo{
		{ID: 42, Title: "shell", Workspace: "1", Width: 800, Height: 600},
	}}
	client, _ := startServer(t, ctrl)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if !status.DaemonRunning || status.FocusedWorkspace != "1" || status.WindowCount != 1 {
		t.Fatalf("unexpected status %+v", status)
	}

	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows() error: %v", err)
	}
	if diff := cmp.Diff(ctrl.windows, windows); diff != "" {
		t.Fatalf("windows mismatch (-want +got):\n%s", diff)
	}

	steps := []func() error{
		func() error { return client.FocusWindow(42) },
		func() error { return client.CloseWindow(42) },
		func() error { return client.HideWindow(42) },
		func() error { return client.UnhideWindow(42) },
		func() error { return client.MoveWindow(42, 10, 20) },
		func() error { return client.ResizeWindow(42, 640, 480) },
		func() error { return client.FocusWorkspace("web") },
		func() error { return client.MoveWindowToWorkspace(42, "chat") },
		client.Reload,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error: %v", i, err)
		}
	}

	want := []string{
		"status", "windows", "focus", "close", "hide", "unhide",
		"move", "resize", "workspace:web", "send:chat", "reload",
	}
	if diff := cmp.Diff(want, ctrl.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerErrorsReachClient(t *testing.T) {
	ctrl := &fakeController{err: errors.New("window not found")}
	client, _ := startServer(t, ctrl)

	err := client.FocusWindow(7)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "window not found") {
		t.Fatalf("error %q does not carry the controller error", err)
	}
}

func TestPayloadValidation(t *testing.T) {
	ctrl := &fakeController{}
	client, _ := startServer(t, ctrl)

	if err := client.FocusWindow(0); err == nil {
		t.Fatal("expected error for missing window id")
	}
	if err := client.ResizeWindow(1, 0, 10); err == nil {
		t.Fatal("expected error for zero width")
	}
	if err := client.FocusWorkspace(""); err == nil {
		t.Fatal("expected error for empty workspace")
	}
	if len(ctrl.calls) != 0 {
		t.Fatalf("controller called for invalid payloads: %v", ctrl.calls)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, socket := startServer(t, &fakeController{})

	conn, err := net.Dial("unix", socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(`{"command":"NOPE"}` + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "Unknown command") {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil {
		t.Fatal("expected connection error")
	}
}
