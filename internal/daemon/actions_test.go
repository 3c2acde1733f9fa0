package daemon

import (
	"testing"

	"github.com/1broseidon/treetile/internal/hotkeys"
	"github.com/1broseidon/treetile/internal/platform"
)

func TestPerform(t *testing.T) {
	f := newSessionFixture(t)
	f.open(t, 1, platform.Point{X: 100, Y: 50})
	f.open(t, 2, platform.Point{X: 300, Y: 50})

	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionHide}); err == nil {
		t.Fatal("hide without an active window should fail")
	}

	f.backend.Active = 2
	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionHide}); err != nil {
		t.Fatalf("hide: %v", err)
	}
	w2, _ := f.session.Registry().Lookup(2)
	if !w2.IsHiddenViaEmulation() {
		t.Fatal("active window should be hidden")
	}

	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionUnhide}); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if w2.IsHiddenViaEmulation() {
		t.Fatal("unhide should restore the workspace")
	}

	f.backend.Active = 1
	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionSend, Workspace: "3"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	w1, _ := f.session.Registry().Lookup(1)
	if w1.Workspace().Name() != "3" {
		t.Fatalf("window 1 in workspace %q, want 3", w1.Workspace().Name())
	}

	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionWorkspace, Workspace: "3"}); err != nil {
		t.Fatalf("workspace: %v", err)
	}
	if f.session.Workspaces().Focused().Name() != "3" {
		t.Fatal("workspace 3 should be focused")
	}

	if err := f.session.Perform(hotkeys.Action{Kind: hotkeys.ActionClose}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(f.geo.Pressed) != 1 {
		t.Fatalf("pressed = %v", f.geo.Pressed)
	}
}

func TestRestoreAll(t *testing.T) {
	f := newSessionFixture(t)
	f.open(t, 1, platform.Point{X: 100, Y: 50})
	f.open(t, 2, platform.Point{X: 300, Y: 50})
	if err := f.session.MoveWindowToWorkspace(2, "2"); err != nil {
		t.Fatal(err)
	}
	if err := f.session.HideWindow(1); err != nil {
		t.Fatal(err)
	}

	if got := f.session.RestoreAll(); got != 2 {
		t.Fatalf("restored %d windows, want 2", got)
	}
	if got := f.position(t, 2); got != (platform.Point{X: 300, Y: 50}) {
		t.Fatalf("window 2 at %v", got)
	}
}
