package daemon

import (
	"fmt"

	"github.com/1broseidon/treetile/internal/hotkeys"
)

// Perform runs a hotkey action. Window actions apply to the focused window.
// Pick is handled by the caller since it runs an external launcher.
func (s *Session) Perform(a hotkeys.Action) error {
	switch a.Kind {
	case hotkeys.ActionWorkspace:
		return s.FocusWorkspace(a.Workspace)
	case hotkeys.ActionUnhide:
		s.UnhideAll()
		return nil
	}

	w, err := s.ActiveWindow()
	if err != nil {
		return fmt.Errorf("%s: no active window: %w", a, err)
	}
	id := uint32(w.ID())

	switch a.Kind {
	case hotkeys.ActionClose:
		return s.CloseWindow(id)
	case hotkeys.ActionHide:
		return s.HideWindow(id)
	case hotkeys.ActionSend:
		return s.MoveWindowToWorkspace(id, a.Workspace)
	default:
		return fmt.Errorf("unsupported action %s", a)
	}
}
