package window

import (
	"github.com/1broseidon/treetile/internal/platform"
)

// lifecycleEvents are installed on every window, in this order.
var lifecycleEvents = []platform.EventKind{
	platform.EventDestroyed,
	platform.EventDeminiaturized,
	platform.EventMiniaturized,
	platform.EventMoved,
	platform.EventResized,
}

// callback returns the notifier callback for the window created with serial.
// Callbacks only carry the id; the window is resolved again once the event
// reaches the owning goroutine.
func (r *Registry) callback(serial uint64) platform.Callback {
	return func(id platform.WindowID, kind platform.EventKind) {
		r.deps.Post(func() { r.handle(id, serial, kind) })
	}
}

func (r *Registry) handle(id platform.WindowID, serial uint64, kind platform.EventKind) {
	w, ok := r.Lookup(id)
	if !ok || w.serial != serial {
		// Already collected, possibly replaced by a newer window with the
		// same id.
		r.log.Debug().
			Uint32("window_id", uint32(id)).
			Stringer("event", kind).
			Msg("ignoring event for unknown window")
		return
	}

	r.log.Debug().
		Uint32("window_id", uint32(id)).
		Stringer("event", kind).
		Msg("window event")

	if kind == platform.EventDestroyed {
		w.GarbageCollect()
	}
	r.deps.Refresh()
}
