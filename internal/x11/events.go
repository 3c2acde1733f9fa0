package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// StructureHandlers receives structure notifications of one foreign window.
// Handlers run on the EventLoop goroutine.
type StructureHandlers struct {
	OnDestroy   func()
	OnMap       func()
	OnUnmap     func()
	// OnConfigure receives the window geometry in root coordinates.
	OnConfigure func(r Rect)
}

// Watch selects StructureNotify on a foreign window and connects handlers.
// Nothing is connected when selecting the mask fails.
func (c *Connection) Watch(windowID xproto.Window, h StructureHandlers) error {
	if err := c.SelectEvents(windowID, xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("select events on window %d: %w", windowID, err)
	}

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		if h.OnDestroy != nil {
			h.OnDestroy()
		}
	}).Connect(c.XUtil, windowID)

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.MapNotifyEvent) {
		if h.OnMap != nil {
			h.OnMap()
		}
	}).Connect(c.XUtil, windowID)

	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.UnmapNotifyEvent) {
		if h.OnUnmap != nil {
			h.OnUnmap()
		}
	}).Connect(c.XUtil, windowID)

	if h.OnConfigure != nil {
		read := func() (Rect, bool) { return c.WindowRect(windowID) }
		configureHandler(read, h.OnConfigure).Connect(c.XUtil, windowID)
	}

	return nil
}

// configureHandler reports the window geometry read back in root
// coordinates. ConfigureNotify coordinates are relative to the parent,
// which is the frame under a reparenting window manager.
func configureHandler(read func() (Rect, bool), on func(Rect)) xevent.ConfigureNotifyFun {
	return func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		if r, ok := read(); ok {
			on(r)
		}
	}
}

// Unwatch detaches every handler connected to windowID and stops listening.
// The window may already be gone, so the mask reset is best-effort.
func (c *Connection) Unwatch(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
	_ = c.SelectEvents(windowID, xproto.EventMaskNoEvent)
}

// WatchClientList calls fn whenever the root _NET_CLIENT_LIST changes.
func (c *Connection) WatchClientList(fn func()) error {
	if err := c.SelectEvents(c.Root, xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("select root property events: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		if name == "_NET_CLIENT_LIST" || name == "_NET_CURRENT_DESKTOP" {
			fn()
		}
	}).Connect(c.XUtil, c.Root)

	return nil
}
