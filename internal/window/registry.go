// Package window tracks foreign windows: which ones are known, where they
// sit in the tree, and what they look like on screen.
package window

import (
	"sort"
	"sync"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tree"
	"github.com/rs/zerolog"
)

// DisplaySource lists the connected displays.
type DisplaySource interface {
	Displays() ([]platform.Display, error)
}

// Deps are the collaborators a Registry works with.
type Deps struct {
	Geometry   platform.Geometry
	Notifier   platform.Notifier
	Workspaces *tree.Workspaces
	// Displays may be nil; hidden windows are then parked past their
	// workspace rectangle.
	Displays DisplaySource
	// Refresh is called after every handled notification.
	Refresh func()
	// Post moves notification handling onto the goroutine that owns the
	// tree. Nil runs handlers inline.
	Post   func(func())
	Logger zerolog.Logger
}

// Registry maps window ids to the single live Window for each.
//
// The table itself is safe for concurrent use. Everything else, windows and
// the tree included, is owned by the goroutine Deps.Post delivers to.
type Registry struct {
	deps Deps
	log  zerolog.Logger

	mu      sync.Mutex
	windows map[platform.WindowID]*Window
	serial  uint64
}

// NewRegistry returns an empty registry.
func NewRegistry(deps Deps) *Registry {
	if deps.Refresh == nil {
		deps.Refresh = func() {}
	}
	if deps.Post == nil {
		deps.Post = func(fn func()) { fn() }
	}
	return &Registry{
		deps:    deps,
		log:     deps.Logger.With().Str("component", "registry").Logger(),
		windows: make(map[platform.WindowID]*Window),
	}
}

// LookupOrCreate returns the window registered under id, or creates,
// places and subscribes a new one. It returns nil when the window cannot be
// tracked right now; the failure is logged.
func (r *Registry) LookupOrCreate(id platform.WindowID, app platform.App) *Window {
	if w, ok := r.Lookup(id); ok {
		return w
	}

	ws := r.deps.Workspaces.Focused()
	data := DecidePlacement(r.deps.Geometry, id, ws)

	r.mu.Lock()
	r.serial++
	serial := r.serial
	r.mu.Unlock()

	w := &Window{id: id, serial: serial, app: app, reg: r}
	tree.Bind(w, data.Parent, data.Index, data.Weight)

	cb := r.callback(serial)
	for _, kind := range lifecycleEvents {
		sub, err := r.deps.Notifier.Subscribe(app.ID(), kind, id, cb)
		if err != nil {
			r.log.Warn().
				Err(err).
				Uint32("window_id", uint32(id)).
				Stringer("event", kind).
				Int("installed", len(w.subs)).
				Msg("subscription failed, dropping window")
			w.GarbageCollect()
			return nil
		}
		w.subs = append(w.subs, sub)
	}

	r.mu.Lock()
	r.windows[id] = w
	r.mu.Unlock()

	r.log.Debug().
		Uint32("window_id", uint32(id)).
		Str("workspace", ws.Name()).
		Bool("floating", data.Parent == ws.Bucket()).
		Msg("new window detected")
	return w
}

// Lookup returns the window registered under id.
func (r *Registry) Lookup(id platform.WindowID) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	return w, ok
}

// Remove drops the mapping for id.
func (r *Registry) Remove(id platform.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, id)
}

// removeWindow drops the mapping only while it still points at w.
func (r *Registry) removeWindow(w *Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.windows[w.id]; ok && cur == w {
		delete(r.windows, w.id)
	}
}

// All returns a snapshot of the registered windows ordered by id. Windows in
// the snapshot may be collected while the caller iterates.
func (r *Registry) All() []*Window {
	r.mu.Lock()
	all := make([]*Window, 0, len(r.windows))
	for _, w := range r.windows {
		all = append(all, w)
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].id < all[j].id
	})
	return all
}

// Len returns the number of registered windows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}
