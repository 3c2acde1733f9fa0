package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/treetile/internal/ipc"
)

type fakeDaemon struct {
	windows []ipc.WindowInfo
	err     error
	calls   []string
}

func (f *fakeDaemon) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{FocusedWorkspace: "2", Workspaces: []string{"1", "2"}, WindowCount: len(f.windows)}, nil
}

func (f *fakeDaemon) ListWindows() ([]ipc.WindowInfo, error) { return f.windows, f.err }
func (f *fakeDaemon) FocusWindow(id uint32) error            { return f.record("focus %d", id) }
func (f *fakeDaemon) CloseWindow(id uint32) error            { return f.record("close %d", id) }
func (f *fakeDaemon) HideWindow(id uint32) error             { return f.record("hide %d", id) }
func (f *fakeDaemon) UnhideWindow(id uint32) error           { return f.record("unhide %d", id) }
func (f *fakeDaemon) MoveWindow(id uint32, x, y int) error {
	return f.record("move %d %d %d", id, x, y)
}
func (f *fakeDaemon) ResizeWindow(id uint32, w, h int) error {
	return f.record("resize %d %d %d", id, w, h)
}
func (f *fakeDaemon) FocusWorkspace(name string) error { return f.record("workspace %s", name) }
func (f *fakeDaemon) MoveWindowToWorkspace(id uint32, ws string) error {
	return f.record("send %d %s", id, ws)
}

func newTestServer(d *fakeDaemon) *Server {
	return NewServer(d, zerolog.Nop())
}

func TestListWindowsFilters(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{
		{ID: 1, Workspace: "1"},
		{ID: 2, Workspace: "2", Hidden: true},
		{ID: 3, Workspace: "2"},
	}}
	s := newTestServer(d)
	hidden := false

	tests := []struct {
		name string
		in   ListWindowsInput
		want []uint32
	}{
		{name: "all", want: []uint32{1, 2, 3}},
		{name: "workspace", in: ListWindowsInput{Workspace: "2"}, want: []uint32{2, 3}},
		{name: "visible on workspace", in: ListWindowsInput{Workspace: "2", Hidden: &hidden}, want: []uint32{3}},
		{name: "no match", in: ListWindowsInput{Workspace: "9"}, want: []uint32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("handleListWindows: %v", err)
			}
			if out.FocusedWorkspace != "2" {
				t.Fatalf("focused = %q", out.FocusedWorkspace)
			}
			got := []uint32{}
			for _, w := range out.Windows {
				got = append(got, w.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWindowTools(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)
	ctx := context.Background()

	if _, _, err := s.handleFocusWindow(ctx, nil, WindowInput{WindowID: 7}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{WindowID: 7}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleHideWindow(ctx, nil, WindowInput{WindowID: 7}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleUnhideWindow(ctx, nil, WindowInput{WindowID: 7}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{WindowID: 7, X: 10, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: 7, Width: 300, Height: 200}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleFocusWorkspace(ctx, nil, WorkspaceInput{Name: "3"}); err != nil {
		t.Fatal(err)
	}
	_, out, err := s.handleMoveToWorkspace(ctx, nil, MoveToWorkspaceInput{WindowID: 7, Workspace: "4"})
	if err != nil {
		t.Fatal(err)
	}

	want := ActionOutput{OK: true, Action: "move_to_workspace", WindowID: 7, Target: "4"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	wantCalls := []string{
		"focus 7", "close 7", "hide 7", "unhide 7",
		"move 7 10 20", "resize 7 300 200", "workspace 3", "send 7 4",
	}
	if diff := cmp.Diff(wantCalls, d.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestToolValidation(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)
	ctx := context.Background()

	if _, _, err := s.handleFocusWindow(ctx, nil, WindowInput{}); err == nil {
		t.Fatal("expected error for missing window_id")
	}
	if _, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: 1, Width: 0, Height: 10}); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, _, err := s.handleFocusWorkspace(ctx, nil, WorkspaceInput{}); err == nil {
		t.Fatal("expected error for empty workspace")
	}
	if _, _, err := s.handleMoveToWorkspace(ctx, nil, MoveToWorkspaceInput{WindowID: 1}); err == nil {
		t.Fatal("expected error for empty target")
	}
	if len(d.calls) != 0 {
		t.Fatalf("invalid input reached the daemon: %v", d.calls)
	}
}

func TestToolPropagatesDaemonError(t *testing.T) {
	boom := errors.New("daemon not running")
	s := newTestServer(&fakeDaemon{err: boom})

	_, _, err := s.handleHideWindow(context.Background(), nil, WindowInput{WindowID: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "hide_window:") {
		t.Fatalf("err = %q, want tool prefix", err)
	}

	if _, _, err := s.handleGetStatus(context.Background(), nil, struct{}{}); !errors.Is(err, boom) {
		t.Fatalf("get_status err = %v", err)
	}
}
