package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective daemon configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warning, error.
	LogLevel string `yaml:"log_level"`
	// LogFile receives a copy of the log when set.
	LogFile string `yaml:"log_file,omitempty"`
	// ReconcileIntervalMs is the period of the discovery and liveness pass.
	ReconcileIntervalMs int `yaml:"reconcile_interval_ms"`
	// Workspaces are created at startup; the first one is focused.
	Workspaces []string `yaml:"workspaces"`
	// Hotkeys maps key sequences (xgbutil syntax, e.g. "Mod4-Shift-q") to
	// actions: close, hide, unhide, pick, workspace:<name>, send:<name>.
	Hotkeys map[string]string `yaml:"hotkeys"`
	// PaletteBackend is the launcher used by the window picker: auto, rofi,
	// fuzzel, wofi or dmenu.
	PaletteBackend string `yaml:"palette_backend"`
}

const (
	DefaultLogLevel            = "info"
	DefaultReconcileIntervalMs = 2000
	minReconcileIntervalMs     = 100
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:            DefaultLogLevel,
		ReconcileIntervalMs: DefaultReconcileIntervalMs,
		PaletteBackend:      "auto",
		Workspaces:          []string{"1", "2", "3", "4"},
		Hotkeys: map[string]string{
			"Mod4-Shift-q": "close",
			"Mod4-minus":   "hide",
			"Mod4-equal":   "unhide",
			"Mod4-space":   "pick",
			"Mod4-1":       "workspace:1",
			"Mod4-2":       "workspace:2",
			"Mod4-3":       "workspace:3",
			"Mod4-4":       "workspace:4",
		},
	}
}

// ReconcileInterval returns the reconcile period as a duration.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalMs) * time.Millisecond
}

// ValidationError reports an invalid value, with its file position when
// known.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.ReconcileIntervalMs < minReconcileIntervalMs {
		return &ValidationError{Path: "reconcile_interval_ms", Err: fmt.Errorf("reconcile_interval_ms must be >= %d", minReconcileIntervalMs)}
	}
	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspaces must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Workspaces))
	for _, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspace names must not be empty")}
		}
		if _, dup := seen[name]; dup {
			return &ValidationError{Path: "workspaces", Err: fmt.Errorf("duplicate workspace %q", name)}
		}
		seen[name] = struct{}{}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	for key, action := range c.Hotkeys {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key sequence")}
		}
		if err := validateAction(action); err != nil {
			return &ValidationError{Path: "hotkeys." + key, Err: err}
		}
	}
	return nil
}

// validateAction mirrors the action grammar understood by the hotkey
// handler.
func validateAction(action string) error {
	kind, arg, hasArg := strings.Cut(strings.TrimSpace(action), ":")
	switch kind {
	case "close", "hide", "unhide", "pick":
		if hasArg {
			return fmt.Errorf("action %q takes no argument", kind)
		}
	case "workspace", "send":
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("action %q needs a workspace name", kind)
		}
	default:
		return fmt.Errorf("unknown action %q (want close, hide, unhide, pick, workspace:<name> or send:<name>)", action)
	}
	return nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
