package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// sourceIndication marks client messages as coming from a pager, which WMs
// honour without focus-stealing prevention.
const sourceIndication = 2

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// FocusWindow activates a window using _NET_ACTIVE_WINDOW.
// The message is built by hand because the xgbutil ewmh request helpers
// panic on this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}
	return c.sendRootMessage(windowID, atom, []uint32{sourceIndication, 0, 0, 0, 0})
}

// RequestClose asks the window manager to close a window via
// _NET_CLOSE_WINDOW.
func (c *Connection) RequestClose(windowID xproto.Window) error {
	atom, err := c.internAtom("_NET_CLOSE_WINDOW")
	if err != nil {
		return err
	}
	return c.sendRootMessage(windowID, atom, []uint32{0, sourceIndication, 0, 0, 0})
}

// SendDeleteWindow delivers WM_DELETE_WINDOW directly to the client.
func (c *Connection) SendDeleteWindow(windowID xproto.Window) error {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocols, err := c.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) sendRootMessage(windowID xproto.Window, atom xproto.Atom, data []uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
