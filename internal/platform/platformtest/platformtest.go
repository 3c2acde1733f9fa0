// Package platformtest provides in-memory implementations of the platform
// ports with failure injection, for tests.
package platformtest

import (
	"errors"
	"sort"
	"sync"

	"github.com/1broseidon/treetile/internal/platform"
)

// ErrSubscribe is returned by Notifier.Subscribe when failure is injected.
var ErrSubscribe = errors.New("platformtest: subscribe failed")

// Window is the state of one fake foreign window.
type Window struct {
	Title    string
	Subrole  platform.Subrole
	TopLeft  platform.Point
	Size     platform.Size
	Closable bool
}

// Geometry is a fake platform.Geometry. Removed windows behave as stale:
// every read and write on them fails.
type Geometry struct {
	mu      sync.Mutex
	windows map[platform.WindowID]*Window

	FailRaise   bool
	FailTopLeft bool
	FailSize    bool
	FailSetSize bool

	Raised  []platform.WindowID
	Pressed []platform.Control
	Moves   []platform.Point
}

var _ platform.Geometry = (*Geometry)(nil)

// NewGeometry returns an empty fake.
func NewGeometry() *Geometry {
	return &Geometry{windows: make(map[platform.WindowID]*Window)}
}

// Add registers a live window.
func (g *Geometry) Add(id platform.WindowID, w Window) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := w
	g.windows[id] = &cp
}

// Remove makes a window stale.
func (g *Geometry) Remove(id platform.WindowID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.windows, id)
}

// Get returns a copy of a window's state.
func (g *Geometry) Get(id platform.WindowID) (Window, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// IDs returns every live window id in ascending order.
func (g *Geometry) IDs() []platform.WindowID {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]platform.WindowID, 0, len(g.windows))
	for id := range g.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Geometry) Title(id platform.WindowID) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok {
		return "", false
	}
	return w.Title, true
}

func (g *Geometry) Subrole(id platform.WindowID) (platform.Subrole, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok {
		return "", false
	}
	return w.Subrole, true
}

func (g *Geometry) TopLeft(id platform.WindowID) (platform.Point, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok || g.FailTopLeft {
		return platform.Point{}, false
	}
	return w.TopLeft, true
}

func (g *Geometry) SetTopLeft(id platform.WindowID, p platform.Point) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok {
		return false
	}
	w.TopLeft = p
	g.Moves = append(g.Moves, p)
	return true
}

func (g *Geometry) Size(id platform.WindowID) (platform.Size, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok || g.FailSize {
		return platform.Size{}, false
	}
	return w.Size, true
}

func (g *Geometry) SetSize(id platform.WindowID, s platform.Size) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok || g.FailSetSize {
		return false
	}
	w.Size = s
	return true
}

func (g *Geometry) CloseControl(id platform.WindowID) (platform.Control, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	if !ok || !w.Closable {
		return platform.Control{}, false
	}
	return platform.Control{Window: id, Action: "close"}, true
}

func (g *Geometry) Press(c platform.Control) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.windows[c.Window]; !ok {
		return false
	}
	g.Pressed = append(g.Pressed, c)
	return true
}

func (g *Geometry) Raise(id platform.WindowID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.windows[id]; !ok || g.FailRaise {
		return false
	}
	g.Raised = append(g.Raised, id)
	return true
}

// Subscription is the fake subscription handle.
type Subscription struct {
	window platform.WindowID
	kind   platform.EventKind
	cb     platform.Callback
}

func (s *Subscription) Window() platform.WindowID { return s.window }
func (s *Subscription) Kind() platform.EventKind  { return s.kind }

// Notifier is a fake platform.Notifier. Callbacks only run from Fire.
type Notifier struct {
	mu   sync.Mutex
	live map[*Subscription]struct{}

	// FailAt makes the n-th Subscribe call (1-based, counted across the
	// fake's lifetime) fail. Zero disables failure injection.
	FailAt int

	Attempts       int
	Unsubscribes   int
	DoubleReleases int
}

var _ platform.Notifier = (*Notifier)(nil)

// NewNotifier returns an empty fake.
func NewNotifier() *Notifier {
	return &Notifier{live: make(map[*Subscription]struct{})}
}

func (n *Notifier) Subscribe(_ platform.AppID, kind platform.EventKind, id platform.WindowID, cb platform.Callback) (platform.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Attempts++
	if n.FailAt != 0 && n.Attempts == n.FailAt {
		return nil, ErrSubscribe
	}
	sub := &Subscription{window: id, kind: kind, cb: cb}
	n.live[sub] = struct{}{}
	return sub, nil
}

func (n *Notifier) Unsubscribe(s platform.Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sub, ok := s.(*Subscription)
	if !ok {
		return
	}
	if _, ok := n.live[sub]; !ok {
		n.DoubleReleases++
		return
	}
	delete(n.live, sub)
	n.Unsubscribes++
}

// Live returns the number of live subscriptions on a window.
func (n *Notifier) Live(id platform.WindowID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for sub := range n.live {
		if sub.window == id {
			count++
		}
	}
	return count
}

// Kinds returns the event kinds subscribed on a window.
func (n *Notifier) Kinds(id platform.WindowID) []platform.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []platform.EventKind
	for sub := range n.live {
		if sub.window == id {
			kinds = append(kinds, sub.kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Fire delivers an event to every live subscription matching id and kind.
func (n *Notifier) Fire(id platform.WindowID, kind platform.EventKind) {
	n.mu.Lock()
	var cbs []platform.Callback
	for sub := range n.live {
		if sub.window == id && sub.kind == kind {
			cbs = append(cbs, sub.cb)
		}
	}
	n.mu.Unlock()

	for _, cb := range cbs {
		cb(id, kind)
	}
}

// App is a fake platform.App.
type App struct {
	AppID        platform.AppID
	AppName      string
	FailActivate bool
	Activations  int
}

var _ platform.App = (*App)(nil)

func (a *App) ID() platform.AppID { return a.AppID }
func (a *App) Name() string       { return a.AppName }

func (a *App) Activate() bool {
	if a.FailActivate {
		return false
	}
	a.Activations++
	return true
}

// Displays is a fixed display list.
type Displays []platform.Display

func (d Displays) Displays() ([]platform.Display, error) {
	if len(d) == 0 {
		return nil, errors.New("platformtest: no displays")
	}
	return append([]platform.Display(nil), d...), nil
}

// Backend is a fake platform.Backend listing the live windows of Geo.
type Backend struct {
	Geo     *Geometry
	Screens Displays
	Active  platform.WindowID
	Desktop int
	ListErr error

	mu   sync.Mutex
	apps map[platform.AppID]*App
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a fake backend over geo.
func NewBackend(geo *Geometry, screens Displays) *Backend {
	return &Backend{Geo: geo, Screens: screens, apps: make(map[platform.AppID]*App)}
}

func (b *Backend) Displays() ([]platform.Display, error) { return b.Screens.Displays() }

// ActiveDisplay returns the display holding the active window's top-left
// corner, or the first display when there is no active window.
func (b *Backend) ActiveDisplay() (platform.Display, error) {
	displays, err := b.Screens.Displays()
	if err != nil {
		return platform.Display{}, err
	}
	if w, ok := b.Geo.Get(b.Active); ok && b.Active != 0 {
		for _, d := range displays {
			if d.Bounds.Contains(w.TopLeft) {
				return d, nil
			}
		}
	}
	return displays[0], nil
}

func (b *Backend) ActiveWindow() (platform.WindowID, error) {
	if b.Active == 0 {
		return 0, errors.New("platformtest: no active window")
	}
	return b.Active, nil
}

func (b *Backend) CurrentDesktop() (int, error) { return b.Desktop, nil }

func (b *Backend) ListWindows() ([]platform.Window, error) {
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	var windows []platform.Window
	for _, id := range b.Geo.IDs() {
		w, ok := b.Geo.Get(id)
		if !ok {
			continue
		}
		windows = append(windows, platform.Window{
			ID:     id,
			Title:  w.Title,
			Bounds: platform.RectFrom(w.TopLeft, w.Size),
		})
	}
	return windows, nil
}

// AppFor returns one fake application per window.
func (b *Backend) AppFor(id platform.WindowID) platform.App {
	b.mu.Lock()
	defer b.mu.Unlock()
	appID := platform.AppID(id)
	if app, ok := b.apps[appID]; ok {
		return app
	}
	app := &App{AppID: appID, AppName: "app"}
	b.apps[appID] = app
	return app
}
