package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"
)

// X11 is implemented by backends that expose their X connection.
type X11 interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger zerolog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend X11, logger zerolog.Logger) *Handler {
	xu := backend.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   backend.RootWindow(),
		logger: logger.With().Str("component", "hotkeys").Logger(),
	}
}

// Bind registers every configured binding. Bindings that fail to parse or
// grab are logged and skipped; the number of active bindings is returned.
func (h *Handler) Bind(bindings map[string]string, run func(Action)) int {
	bound := 0
	for _, key := range sortedKeys(bindings) {
		action, err := ParseAction(bindings[key])
		if err != nil {
			h.logger.Warn().Err(err).Str("key", key).Msg("skipping hotkey")
			continue
		}
		if err := h.RegisterFunc(key, func() {
			h.logger.Debug().Str("key", key).Stringer("action", action).Msg("hotkey triggered")
			run(action)
		}); err != nil {
			h.logger.Warn().Err(err).Str("key", key).Msg("failed to register hotkey")
			continue
		}
		h.logger.Info().Str("key", key).Stringer("action", action).Msg("hotkey registered")
		bound++
	}
	return bound
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("no X connection")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Unbind releases every grab made by this handler.
func (h *Handler) Unbind() {
	if h.xu != nil {
		keybind.Detach(h.xu, h.root)
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	if xu == nil {
		return
	}
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the given modifier masks,
// including the empty one.
func ignoreMasks(base []uint16) []uint16 {
	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
