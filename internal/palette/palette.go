// Package palette shows a list of entries in an external launcher (rofi,
// fuzzel, wofi or dmenu) and reports the one the user picked.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without
// picking an entry.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of the launcher.
type Item struct {
	Label    string
	Icon     string // rofi -show-icons icon name
	Info     string // opaque value carried back on selection
	Meta     string // extra search keywords (rofi only)
	IsHeader bool   // non-selectable where the launcher supports it
	IsActive bool
	IsUrgent bool
}

// Backend shows items and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
	Name() string
}

// launchers is the detection order for "auto".
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// NewBackend returns the launcher called name, or the first one found in
// PATH when name is "" or "auto".
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range launchers {
			if _, err := lookPath(candidate); err == nil {
				return newLauncher(candidate, runCommand), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}

	for _, candidate := range launchers {
		if candidate != name {
			continue
		}
		if _, err := lookPath(name); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", name)
		}
		return newLauncher(name, runCommand), nil
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}
