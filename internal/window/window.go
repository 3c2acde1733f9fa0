package window

import (
	"fmt"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tree"
)

// hideState is either visible or hidden with a restore offset. The offset is
// meaningful only while hidden; build values with visible and hiddenAt.
type hideState struct {
	hidden bool
	offset platform.Point
}

func visible() hideState { return hideState{} }

func hiddenAt(offset platform.Point) hideState {
	return hideState{hidden: true, offset: offset}
}

func (h hideState) restoreOffset() (platform.Point, bool) {
	return h.offset, h.hidden
}

// Window is a foreign window bound to a tree position.
type Window struct {
	tree.Leaf

	id     platform.WindowID
	serial uint64
	app    platform.App
	reg    *Registry

	subs      []platform.Subscription
	hide      hideState
	prevSize  platform.Size
	hasPrev   bool
	collected bool
}

// ID returns the platform window id.
func (w *Window) ID() platform.WindowID { return w.id }

// App returns the owning application.
func (w *Window) App() platform.App { return w.app }

// Title reads the window title. Stale windows report an empty title.
func (w *Window) Title() string {
	title, _ := w.reg.deps.Geometry.Title(w.id)
	return title
}

// Workspace returns the workspace the window is bound into, or nil.
func (w *Window) Workspace() *tree.Workspace {
	return tree.WorkspaceOf(w)
}

// IsFloating reports whether the window sits in its workspace's floating
// bucket.
func (w *Window) IsFloating() bool {
	parent := w.Parent()
	return parent != nil && parent.Kind() == tree.KindWorkspace
}

// BindTo moves the window to a new tree position.
func (w *Window) BindTo(data BindingData) {
	tree.Bind(w, data.Parent, data.Index, data.Weight)
}

// Subscriptions returns the number of installed notifications.
func (w *Window) Subscriptions() int { return len(w.subs) }

// Focus raises the window and then activates its application. The window
// becomes the most recent one only when both steps succeed.
func (w *Window) Focus() bool {
	// Raise must land before the application is activated.
	if !w.reg.deps.Geometry.Raise(w.id) {
		return false
	}
	if !w.app.Activate() {
		return false
	}
	tree.MarkAsMostRecentChild(w)
	tree.MarkAsMostRecentChildForAccordion(w)
	return true
}

// Close presses the window's close control. The window is collected later,
// when its destroyed notification arrives.
func (w *Window) Close() bool {
	geo := w.reg.deps.Geometry
	control, ok := geo.CloseControl(w.id)
	if !ok {
		return false
	}
	return geo.Press(control)
}

// IsHiddenViaEmulation reports whether the window is parked off screen.
func (w *Window) IsHiddenViaEmulation() bool {
	_, hidden := w.hide.restoreOffset()
	return hidden
}

// HideViaEmulation parks the window past the bottom-right corner of every
// display. The position relative to the workspace is remembered on the first
// call only; later calls just park again.
func (w *Window) HideViaEmulation() {
	geo := w.reg.deps.Geometry
	ws := w.offsetWorkspace()

	if !w.IsHiddenViaEmulation() {
		topLeft, ok := geo.TopLeft(w.id)
		if !ok {
			return
		}
		w.hide = hiddenAt(topLeft.Sub(ws.AssignedRect().TopLeft()))
	}
	geo.SetTopLeft(w.id, w.parkingPoint(ws))
}

// UnhideViaEmulation moves a hidden window back to its remembered position
// inside its workspace.
func (w *Window) UnhideViaEmulation() {
	offset, hidden := w.hide.restoreOffset()
	if !hidden {
		return
	}
	ws := w.offsetWorkspace()
	w.reg.deps.Geometry.SetTopLeft(w.id, ws.AssignedRect().TopLeft().Add(offset))
	w.hide = visible()
}

func (w *Window) offsetWorkspace() *tree.Workspace {
	if ws := w.Workspace(); ws != nil {
		return ws
	}
	return w.reg.deps.Workspaces.Focused()
}

func (w *Window) parkingPoint(ws *tree.Workspace) platform.Point {
	if src := w.reg.deps.Displays; src != nil {
		if displays, err := src.Displays(); err == nil {
			if union, ok := platform.UnionOf(displays); ok {
				return union.BottomRight()
			}
		}
	}
	return ws.AssignedRect().BottomRight()
}

// SetSize resizes the window and remembers the size it had before.
func (w *Window) SetSize(size platform.Size) bool {
	geo := w.reg.deps.Geometry
	cur, ok := geo.Size(w.id)
	w.prevSize, w.hasPrev = cur, ok
	return geo.SetSize(w.id, size)
}

// PreviousSize returns the size recorded by the last SetSize.
func (w *Window) PreviousSize() (platform.Size, bool) {
	return w.prevSize, w.hasPrev
}

// SetTopLeft moves the window.
func (w *Window) SetTopLeft(p platform.Point) bool {
	return w.reg.deps.Geometry.SetTopLeft(w.id, p)
}

// TopLeft reads the window position.
func (w *Window) TopLeft() (platform.Point, bool) {
	return w.reg.deps.Geometry.TopLeft(w.id)
}

// Size reads the window size.
func (w *Window) Size() (platform.Size, bool) {
	return w.reg.deps.Geometry.Size(w.id)
}

// Rect reads position and size. ok is false when either read fails, which
// usually means the foreign window is gone.
func (w *Window) Rect() (platform.Rect, bool) {
	topLeft, ok := w.TopLeft()
	if !ok {
		return platform.Rect{}, false
	}
	size, ok := w.Size()
	if !ok {
		return platform.Rect{}, false
	}
	return platform.RectFrom(topLeft, size), true
}

// GarbageCollect forgets the window: registry entry, tree position and
// subscriptions. Calls after the first do nothing.
func (w *Window) GarbageCollect() {
	if w.collected {
		return
	}
	w.collected = true

	w.reg.removeWindow(w)
	tree.Unbind(w)
	for _, sub := range w.subs {
		w.reg.deps.Notifier.Unsubscribe(sub)
	}
	w.subs = nil

	w.reg.log.Debug().Uint32("window_id", uint32(w.id)).Msg("window collected")
}

func (w *Window) String() string {
	return fmt.Sprintf("window %d", w.id)
}
