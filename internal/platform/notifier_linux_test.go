//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/treetile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"
)

type fakeWatcher struct {
	rects     map[xproto.Window]x11.Rect
	handlers  map[xproto.Window]x11.StructureHandlers
	unwatched []xproto.Window
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		rects:    make(map[xproto.Window]x11.Rect),
		handlers: make(map[xproto.Window]x11.StructureHandlers),
	}
}

func (f *fakeWatcher) WindowRect(win xproto.Window) (x11.Rect, bool) {
	r, ok := f.rects[win]
	return r, ok
}

func (f *fakeWatcher) Watch(win xproto.Window, h x11.StructureHandlers) error {
	f.handlers[win] = h
	return nil
}

func (f *fakeWatcher) Unwatch(win xproto.Window) {
	delete(f.handlers, win)
	f.unwatched = append(f.unwatched, win)
}

func newWatchedBackend(w *fakeWatcher) *LinuxBackend {
	b := NewLinuxBackend(nil)
	b.watcher = w
	return b
}

func TestConfigureDispatchesMovesAndResizes(t *testing.T) {
	w := newFakeWatcher()
	w.rects[10] = x11.Rect{X: 100, Y: 50, Width: 640, Height: 480}
	b := newWatchedBackend(w)

	var got []EventKind
	record := func(_ WindowID, kind EventKind) { got = append(got, kind) }
	for _, kind := range []EventKind{EventMoved, EventResized} {
		if _, err := b.Subscribe(1, kind, 10, record); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", kind, err)
		}
	}

	configure := w.handlers[10].OnConfigure
	configure(x11.Rect{X: 100, Y: 50, Width: 640, Height: 480})
	configure(x11.Rect{X: 300, Y: 50, Width: 640, Height: 480})
	configure(x11.Rect{X: 300, Y: 50, Width: 800, Height: 600})

	want := []EventKind{EventMoved, EventResized}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribeForgetsApplication(t *testing.T) {
	w := newFakeWatcher()
	b := newWatchedBackend(w)
	const app AppID = 42
	b.apps[app] = &x11App{backend: b, id: app, name: "term"}
	b.owners[10] = app
	b.owners[11] = app
	b.front[app] = 10

	noop := func(WindowID, EventKind) {}
	sub10, _ := b.Subscribe(app, EventDestroyed, 10, noop)
	sub11, _ := b.Subscribe(app, EventDestroyed, 11, noop)

	b.Unsubscribe(sub10)
	if _, ok := b.front[app]; ok {
		t.Fatal("front window still points at the unwatched window")
	}
	if _, ok := b.apps[app]; !ok {
		t.Fatal("application dropped while it still has a window")
	}

	b.Unsubscribe(sub11)
	if _, ok := b.apps[app]; ok {
		t.Fatal("application kept after its last window was unwatched")
	}
	if len(b.owners) != 0 {
		t.Fatalf("owners = %v, want empty", b.owners)
	}
	if diff := cmp.Diff([]xproto.Window{10, 11}, w.unwatched); diff != "" {
		t.Fatalf("unwatched mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribeKeepsWatchWithOtherSubscriptions(t *testing.T) {
	w := newFakeWatcher()
	b := newWatchedBackend(w)
	b.owners[10] = 7
	b.apps[7] = &x11App{backend: b, id: 7}

	noop := func(WindowID, EventKind) {}
	moved, _ := b.Subscribe(7, EventMoved, 10, noop)
	if _, err := b.Subscribe(7, EventDestroyed, 10, noop); err != nil {
		t.Fatalf("Subscribe error = %v", err)
	}

	b.Unsubscribe(moved)
	if len(w.unwatched) != 0 {
		t.Fatalf("window unwatched with a subscription left: %v", w.unwatched)
	}
	if _, ok := b.apps[7]; !ok {
		t.Fatal("application dropped while the window is still watched")
	}
}
