//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/treetile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// windowWatcher is the part of the X connection the notifier uses.
type windowWatcher interface {
	WindowRect(win xproto.Window) (x11.Rect, bool)
	Watch(win xproto.Window, h x11.StructureHandlers) error
	Unwatch(win xproto.Window)
}

// watch holds every subscription installed on one X window. The X handlers
// are connected once per window and fan out to the subscriptions.
type watch struct {
	last x11.Rect
	subs map[uint64]*x11Subscription
}

type x11Subscription struct {
	key    uint64
	window WindowID
	kind   EventKind
	cb     Callback
}

func (s *x11Subscription) Window() WindowID { return s.window }
func (s *x11Subscription) Kind() EventKind  { return s.kind }

// Subscribe implements Notifier. Callbacks run on the X event loop goroutine.
func (b *LinuxBackend) Subscribe(_ AppID, kind EventKind, id WindowID, cb Callback) (Subscription, error) {
	if cb == nil {
		return nil, fmt.Errorf("nil callback for %s on window %d", kind, id)
	}
	win := xproto.Window(id)

	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.watches[win]
	if !ok {
		last, _ := b.watcher.WindowRect(win)
		w = &watch{last: last, subs: make(map[uint64]*x11Subscription)}
		err := b.watcher.Watch(win, x11.StructureHandlers{
			OnDestroy:   func() { b.dispatch(win, EventDestroyed) },
			OnMap:       func() { b.dispatch(win, EventDeminiaturized) },
			OnUnmap:     func() { b.dispatch(win, EventMiniaturized) },
			OnConfigure: func(r x11.Rect) { b.configured(win, r) },
		})
		if err != nil {
			b.forgetLocked(win)
			return nil, err
		}
		b.watches[win] = w
	}

	b.nextSub++
	sub := &x11Subscription{key: b.nextSub, window: id, kind: kind, cb: cb}
	w.subs[sub.key] = sub
	return sub, nil
}

// Unsubscribe implements Notifier. Unknown or already removed subscriptions
// are ignored.
func (b *LinuxBackend) Unsubscribe(s Subscription) {
	sub, ok := s.(*x11Subscription)
	if !ok {
		return
	}
	win := xproto.Window(sub.window)

	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.watches[win]
	if !ok {
		return
	}
	delete(w.subs, sub.key)
	if len(w.subs) == 0 {
		delete(b.watches, win)
		b.watcher.Unwatch(win)
		b.forgetLocked(win)
	}
}

// forgetLocked drops the application bookkeeping of a window that is no
// longer watched. The application goes once it has no windows left.
func (b *LinuxBackend) forgetLocked(win xproto.Window) {
	appID, ok := b.owners[win]
	if !ok {
		return
	}
	delete(b.owners, win)
	if b.front[appID] == win {
		delete(b.front, appID)
	}
	for _, other := range b.owners {
		if other == appID {
			return
		}
	}
	delete(b.apps, appID)
}

func (b *LinuxBackend) configured(win xproto.Window, r x11.Rect) {
	b.mu.Lock()
	w, ok := b.watches[win]
	if !ok {
		b.mu.Unlock()
		return
	}
	moved := r.X != w.last.X || r.Y != w.last.Y
	resized := r.Width != w.last.Width || r.Height != w.last.Height
	w.last = r
	b.mu.Unlock()

	if moved {
		b.dispatch(win, EventMoved)
	}
	if resized {
		b.dispatch(win, EventResized)
	}
}

// dispatch invokes matching callbacks outside the lock so that they may
// unsubscribe.
func (b *LinuxBackend) dispatch(win xproto.Window, kind EventKind) {
	b.mu.Lock()
	w, ok := b.watches[win]
	var cbs []Callback
	if ok {
		for _, sub := range w.subs {
			if sub.kind == kind {
				cbs = append(cbs, sub.cb)
			}
		}
	}
	b.mu.Unlock()

	for _, cb := range cbs {
		cb(WindowID(win), kind)
	}
}
