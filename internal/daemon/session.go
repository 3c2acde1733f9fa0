package daemon

import (
	"errors"
	"fmt"

	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tree"
	"github.com/1broseidon/treetile/internal/window"
	"github.com/rs/zerolog"
)

var (
	// ErrWindowNotFound is returned for ids the registry does not know.
	ErrWindowNotFound = errors.New("window not found")
	// ErrOperationFailed is returned when the window system refused a
	// request, usually because the window went away.
	ErrOperationFailed = errors.New("operation failed")
)

// SessionConfig wires a Session to the window system.
type SessionConfig struct {
	Backend    platform.Backend
	Geometry   platform.Geometry
	Notifier   platform.Notifier
	Workspaces []string
	// Post delivers window notifications to the goroutine running the
	// session, normally Dispatcher.Post.
	Post   func(func())
	Logger zerolog.Logger
}

// Session owns the workspaces and the window registry. Its methods must be
// called on the dispatcher goroutine.
type Session struct {
	backend  platform.Backend
	geo      platform.Geometry
	spaces   *tree.Workspaces
	reg      *window.Registry
	// monitors binds each workspace to the display whose usable area it
	// takes. A binding only changes when its display goes away.
	monitors map[*tree.Workspace]int
	logger   zerolog.Logger
}

// NewSession creates a session with the configured workspaces.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		backend:  cfg.Backend,
		geo:      cfg.Geometry,
		spaces:   tree.NewWorkspaces(cfg.Workspaces...),
		monitors: make(map[*tree.Workspace]int),
		logger:   cfg.Logger.With().Str("component", "session").Logger(),
	}
	s.reg = window.NewRegistry(window.Deps{
		Geometry:   cfg.Geometry,
		Notifier:   cfg.Notifier,
		Workspaces: s.spaces,
		Displays:   cfg.Backend,
		Refresh:    s.Refresh,
		Post:       cfg.Post,
		Logger:     cfg.Logger,
	})
	s.Refresh()
	return s
}

// Registry returns the window registry.
func (s *Session) Registry() *window.Registry { return s.reg }

// Workspaces returns the workspace set.
func (s *Session) Workspaces() *tree.Workspaces { return s.spaces }

// Refresh assigns every workspace the usable area of its display. Unbound
// workspaces are bound to the focused workspace's display, or to the
// display holding the focused window when the focused workspace is unbound
// too. Workspaces whose display is gone are rebound the same way.
func (s *Session) Refresh() {
	displays, err := s.backend.Displays()
	if err != nil || len(displays) == 0 {
		s.logger.Debug().Err(err).Msg("refresh: no displays")
		return
	}
	byID := make(map[int]platform.Display, len(displays))
	for _, d := range displays {
		byID[d.ID] = d
	}

	focusedID, bound := s.monitors[s.spaces.Focused()]
	home, ok := byID[focusedID]
	if !bound || !ok {
		home = s.activeDisplay(byID, displays[0])
	}

	for _, ws := range s.spaces.All() {
		id, bound := s.monitors[ws]
		d, ok := byID[id]
		if !bound || !ok {
			d = home
			s.monitors[ws] = d.ID
			s.logger.Debug().
				Str("workspace", ws.Name()).
				Str("display", d.Name).
				Msg("workspace bound to display")
		}
		ws.AssignRect(d.Usable)
	}
}

func (s *Session) activeDisplay(byID map[int]platform.Display, fallback platform.Display) platform.Display {
	active, err := s.backend.ActiveDisplay()
	if err != nil {
		return fallback
	}
	if d, ok := byID[active.ID]; ok {
		return d
	}
	return fallback
}

func (s *Session) lookup(id uint32) (*window.Window, error) {
	w, ok := s.reg.Lookup(platform.WindowID(id))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	return w, nil
}

func failed(action string, w *window.Window) error {
	return fmt.Errorf("%w: %s %s", ErrOperationFailed, action, w)
}

// FocusWindow focuses a window, switching to its workspace first.
func (s *Session) FocusWindow(id uint32) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	if ws := w.Workspace(); ws != nil && ws != s.spaces.Focused() {
		s.switchTo(ws)
	}
	w.UnhideViaEmulation()
	if !w.Focus() {
		return failed("focus", w)
	}
	return nil
}

// CloseWindow asks a window to close.
func (s *Session) CloseWindow(id uint32) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !w.Close() {
		return failed("close", w)
	}
	return nil
}

// HideWindow parks a window off screen.
func (s *Session) HideWindow(id uint32) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	w.HideViaEmulation()
	if !w.IsHiddenViaEmulation() {
		return failed("hide", w)
	}
	return nil
}

// UnhideWindow restores a hidden window.
func (s *Session) UnhideWindow(id uint32) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	w.UnhideViaEmulation()
	return nil
}

// MoveWindow moves a window's top-left corner.
func (s *Session) MoveWindow(id uint32, x, y int) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !w.SetTopLeft(platform.Point{X: x, Y: y}) {
		return failed("move", w)
	}
	return nil
}

// ResizeWindow resizes a window.
func (s *Session) ResizeWindow(id uint32, width, height int) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !w.SetSize(platform.Size{Width: width, Height: height}) {
		return failed("resize", w)
	}
	return nil
}

// FocusWorkspace hides the windows of the focused workspace and shows the
// windows of the named one, creating it if needed.
func (s *Session) FocusWorkspace(name string) error {
	s.switchTo(s.spaces.Get(name))
	return nil
}

func (s *Session) switchTo(target *tree.Workspace) {
	prev := s.spaces.Focused()
	if target == prev {
		return
	}
	s.Refresh()

	for _, w := range windowsOf(prev) {
		w.HideViaEmulation()
	}
	s.spaces.SetFocused(target)
	for _, w := range windowsOf(target) {
		w.UnhideViaEmulation()
	}
	if mru, ok := target.MostRecentWindow().(*window.Window); ok {
		mru.Focus()
	}

	s.logger.Info().
		Str("from", prev.Name()).
		Str("to", target.Name()).
		Msg("workspace switched")
}

// MoveWindowToWorkspace rebinds a window into another workspace. Windows
// sent away from the focused workspace are hidden; windows brought into it
// are shown.
func (s *Session) MoveWindowToWorkspace(id uint32, name string) error {
	w, err := s.lookup(id)
	if err != nil {
		return err
	}
	target := s.spaces.Get(name)
	if w.Workspace() == target {
		return nil
	}
	s.Refresh()

	focused := s.spaces.Focused()
	if target != focused {
		w.HideViaEmulation()
	}
	w.BindTo(window.DecidePlacement(s.geo, w.ID(), target))
	if target == focused {
		w.UnhideViaEmulation()
	}
	return nil
}

// Windows describes every registered window.
func (s *Session) Windows() []ipc.WindowInfo {
	all := s.reg.All()
	infos := make([]ipc.WindowInfo, 0, len(all))
	for _, w := range all {
		info := ipc.WindowInfo{
			ID:       uint32(w.ID()),
			Title:    w.Title(),
			Floating: w.IsFloating(),
			Hidden:   w.IsHiddenViaEmulation(),
		}
		if ws := w.Workspace(); ws != nil {
			info.Workspace = ws.Name()
		}
		if r, ok := w.Rect(); ok {
			info.X, info.Y, info.Width, info.Height = r.X, r.Y, r.Width, r.Height
		}
		infos = append(infos, info)
	}
	return infos
}

// Status summarizes the session.
func (s *Session) Status() ipc.StatusData {
	hidden := 0
	all := s.reg.All()
	for _, w := range all {
		if w.IsHiddenViaEmulation() {
			hidden++
		}
	}
	return ipc.StatusData{
		FocusedWorkspace: s.spaces.Focused().Name(),
		Workspaces:       s.spaces.Names(),
		WindowCount:      len(all),
		HiddenCount:      hidden,
	}
}

// ActiveWindow returns the registered window the window system reports as
// focused.
func (s *Session) ActiveWindow() (*window.Window, error) {
	id, err := s.backend.ActiveWindow()
	if err != nil {
		return nil, err
	}
	return s.lookup(uint32(id))
}

// UnhideAll restores every hidden window of the focused workspace.
func (s *Session) UnhideAll() {
	for _, w := range windowsOf(s.spaces.Focused()) {
		w.UnhideViaEmulation()
	}
}

// RestoreAll brings back every hidden window on every workspace. The daemon
// calls it on exit so no window stays parked off screen.
func (s *Session) RestoreAll() int {
	restored := 0
	for _, w := range s.reg.All() {
		if w.IsHiddenViaEmulation() {
			w.UnhideViaEmulation()
			restored++
		}
	}
	return restored
}

func windowsOf(ws *tree.Workspace) []*window.Window {
	var windows []*window.Window
	for _, n := range ws.Leaves() {
		if w, ok := n.(*window.Window); ok {
			windows = append(windows, w)
		}
	}
	return windows
}
