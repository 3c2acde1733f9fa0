package hotkeys

import (
	"fmt"
	"sort"
	"strings"
)

// ActionKind names what a hotkey does.
type ActionKind string

const (
	ActionClose     ActionKind = "close"
	ActionHide      ActionKind = "hide"
	ActionUnhide    ActionKind = "unhide"
	ActionWorkspace ActionKind = "workspace"
	ActionSend      ActionKind = "send"
	ActionPick      ActionKind = "pick"
)

// Action is a parsed hotkey action. Workspace is set for workspace and send.
type Action struct {
	Kind      ActionKind
	Workspace string
}

func (a Action) String() string {
	if a.Workspace != "" {
		return string(a.Kind) + ":" + a.Workspace
	}
	return string(a.Kind)
}

// ParseAction parses "close", "hide", "unhide", "pick", "workspace:<name>"
// and "send:<name>".
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	kind, arg, hasArg := strings.Cut(s, ":")
	switch ActionKind(kind) {
	case ActionClose, ActionHide, ActionUnhide, ActionPick:
		if hasArg {
			return Action{}, fmt.Errorf("action %q takes no argument", kind)
		}
		return Action{Kind: ActionKind(kind)}, nil
	case ActionWorkspace, ActionSend:
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return Action{}, fmt.Errorf("action %q needs a workspace name", kind)
		}
		return Action{Kind: ActionKind(kind), Workspace: arg}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
