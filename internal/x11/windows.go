package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Rect is a window geometry in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowRect reads the geometry of a client window translated to root
// coordinates. ok is false when the window no longer exists.
func (c *Connection) WindowRect(windowID xproto.Window) (Rect, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, false
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, false
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

// MoveWindow moves a window's top-left corner, preferring the EWMH request so
// that the running window manager accounts for decorations.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		// Not every WM supports _NET_MOVERESIZE_WINDOW.
		return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID,
			xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
	}
	return nil
}

// ResizeWindow changes a window's size.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	if err := ewmh.ResizeWindow(c.XUtil, windowID, width, height); err != nil {
		return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID,
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(width), uint32(height)}).Check()
	}
	return nil
}

// RaiseWindow restacks a window above its siblings.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// WindowTypes returns the _NET_WM_WINDOW_TYPE atoms of a window.
func (c *Connection) WindowTypes(windowID xproto.Window) ([]string, error) {
	return ewmh.WmWindowTypeGet(c.XUtil, windowID)
}

// WindowStates returns the _NET_WM_STATE atoms of a window.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, windowID)
}

// IsTransient reports whether the window declares WM_TRANSIENT_FOR.
func (c *Connection) IsTransient(windowID xproto.Window) bool {
	parent, err := icccm.WmTransientForGet(c.XUtil, windowID)
	return err == nil && parent != 0
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) (string, error) {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}
	title, err := icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}

// WindowClass returns the WM_CLASS class part of a window.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowPID returns _NET_WM_PID, or 0 when unset.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

// SupportsDeleteWindow reports whether the client participates in the
// WM_DELETE_WINDOW protocol.
func (c *Connection) SupportsDeleteWindow(windowID xproto.Window) bool {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

// SupportsNetCloseWindow reports whether the running window manager
// advertises _NET_CLOSE_WINDOW.
func (c *Connection) SupportsNetCloseWindow() bool {
	supported, err := ewmh.SupportedGet(c.XUtil)
	if err != nil {
		return false
	}
	for _, atom := range supported {
		if atom == "_NET_CLOSE_WINDOW" {
			return true
		}
	}
	return false
}

// SelectEvents sets the event mask this connection listens to on a foreign
// window. Fails with BadWindow when the window is gone.
func (c *Connection) SelectEvents(windowID xproto.Window, mask uint32) error {
	return xwindow.New(c.XUtil, windowID).Listen(int(mask))
}

// ListClients returns the EWMH client list.
func (c *Connection) ListClients() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
