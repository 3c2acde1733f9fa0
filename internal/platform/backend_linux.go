//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/treetile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend implements Backend, Geometry and Notifier on top of an X11
// connection.
type LinuxBackend struct {
	conn    *x11.Connection
	watcher windowWatcher

	mu      sync.Mutex
	apps    map[AppID]*x11App
	front   map[AppID]xproto.Window
	owners  map[xproto.Window]AppID
	watches map[xproto.Window]*watch
	nextSub uint64
}

var (
	_ Backend  = (*LinuxBackend)(nil)
	_ Geometry = (*LinuxBackend)(nil)
	_ Notifier = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		conn:    conn,
		watcher: conn,
		apps:    make(map[AppID]*x11App),
		front:   make(map[AppID]xproto.Window),
		owners:  make(map[xproto.Window]AppID),
		watches: make(map[xproto.Window]*watch),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// WatchClientList calls fn when windows are added to or removed from the
// EWMH client list, or the current desktop changes.
func (b *LinuxBackend) WatchClientList(fn func()) error {
	return b.conn.WatchClientList(fn)
}

// Displays returns all active displays sorted by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, b.displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the display holding the focused window.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	active, err := b.conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return b.displayFromMonitor(*active), nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	wid, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// CurrentDesktop returns the current virtual desktop number.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	return b.conn.GetCurrentDesktop()
}

// ListWindows lists every managed client window that still has readable
// geometry.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	clients, err := b.conn.ListClients()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, win := range clients {
		rect, ok := b.conn.WindowRect(win)
		if !ok {
			continue
		}
		title, _ := b.conn.WindowTitle(win)
		windows = append(windows, Window{
			ID:     WindowID(win),
			PID:    b.conn.WindowPID(win),
			AppID:  b.conn.WindowClass(win),
			Title:  title,
			Bounds: Rect(rect),
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// AppFor returns the application owning a window. Windows without
// _NET_WM_PID form an application of their own.
func (b *LinuxBackend) AppFor(id WindowID) App {
	win := xproto.Window(id)
	appID := AppID(b.conn.WindowPID(win))
	if appID == 0 {
		appID = -AppID(id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.owners[win] = appID
	if app, ok := b.apps[appID]; ok {
		return app
	}
	app := &x11App{backend: b, id: appID, name: b.conn.WindowClass(win)}
	b.apps[appID] = app
	return app
}

func (b *LinuxBackend) displayFromMonitor(m x11.Monitor) Display {
	usable := b.conn.UsableArea(m)
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Usable: Rect{X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height},
	}
}

// Title implements Geometry.
func (b *LinuxBackend) Title(id WindowID) (string, bool) {
	title, err := b.conn.WindowTitle(xproto.Window(id))
	return title, err == nil
}

// Subrole implements Geometry.
func (b *LinuxBackend) Subrole(id WindowID) (Subrole, bool) {
	win := xproto.Window(id)
	if _, ok := b.conn.WindowRect(win); !ok {
		return "", false
	}
	// Missing properties are reported as errors; treat them as unset.
	types, _ := b.conn.WindowTypes(win)
	states, _ := b.conn.WindowStates(win)
	return ClassifyWindowType(types, states, b.conn.IsTransient(win)), true
}

// TopLeft implements Geometry.
func (b *LinuxBackend) TopLeft(id WindowID) (Point, bool) {
	rect, ok := b.conn.WindowRect(xproto.Window(id))
	if !ok {
		return Point{}, false
	}
	return Point{X: rect.X, Y: rect.Y}, true
}

// SetTopLeft implements Geometry.
func (b *LinuxBackend) SetTopLeft(id WindowID, p Point) bool {
	return b.conn.MoveWindow(xproto.Window(id), p.X, p.Y) == nil
}

// Size implements Geometry.
func (b *LinuxBackend) Size(id WindowID) (Size, bool) {
	rect, ok := b.conn.WindowRect(xproto.Window(id))
	if !ok {
		return Size{}, false
	}
	return Size{Width: rect.Width, Height: rect.Height}, true
}

// SetSize implements Geometry.
func (b *LinuxBackend) SetSize(id WindowID, s Size) bool {
	return b.conn.ResizeWindow(xproto.Window(id), s.Width, s.Height) == nil
}

const (
	actionDeleteWindow = "WM_DELETE_WINDOW"
	actionNetClose     = "_NET_CLOSE_WINDOW"
)

// CloseControl implements Geometry. Clients speaking WM_DELETE_WINDOW are
// asked directly; otherwise the window manager is asked when it supports
// _NET_CLOSE_WINDOW.
func (b *LinuxBackend) CloseControl(id WindowID) (Control, bool) {
	win := xproto.Window(id)
	if _, ok := b.conn.WindowRect(win); !ok {
		return Control{}, false
	}
	if b.conn.SupportsDeleteWindow(win) {
		return Control{Window: id, Action: actionDeleteWindow}, true
	}
	if b.conn.SupportsNetCloseWindow() {
		return Control{Window: id, Action: actionNetClose}, true
	}
	return Control{}, false
}

// Press implements Geometry.
func (b *LinuxBackend) Press(c Control) bool {
	win := xproto.Window(c.Window)
	switch c.Action {
	case actionDeleteWindow:
		return b.conn.SendDeleteWindow(win) == nil
	case actionNetClose:
		return b.conn.RequestClose(win) == nil
	default:
		return false
	}
}

// Raise implements Geometry. The raised window becomes the one its
// application activates next.
func (b *LinuxBackend) Raise(id WindowID) bool {
	win := xproto.Window(id)
	if err := b.conn.RaiseWindow(win); err != nil {
		return false
	}
	app := b.AppFor(id)

	b.mu.Lock()
	b.front[app.ID()] = win
	b.mu.Unlock()
	return true
}

// x11App groups windows by _NET_WM_PID.
type x11App struct {
	backend *LinuxBackend
	id      AppID
	name    string
}

func (a *x11App) ID() AppID    { return a.id }
func (a *x11App) Name() string { return a.name }

// Activate focuses the application's most recently raised window.
func (a *x11App) Activate() bool {
	a.backend.mu.Lock()
	win, ok := a.backend.front[a.id]
	a.backend.mu.Unlock()
	if !ok {
		return false
	}
	return a.backend.conn.FocusWindow(win) == nil
}
