package config

// RawConfig is the on-disk shape. Nil fields keep their default.
type RawConfig struct {
	LogLevel            *string            `yaml:"log_level"`
	LogFile             *string            `yaml:"log_file"`
	ReconcileIntervalMs *int               `yaml:"reconcile_interval_ms"`
	Workspaces          *[]string          `yaml:"workspaces"`
	Hotkeys             *map[string]string `yaml:"hotkeys"`
	PaletteBackend      *string            `yaml:"palette_backend"`
}

// BuildEffectiveConfig applies raw over the defaults. A hotkeys mapping in
// the file replaces the default bindings entirely.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.ReconcileIntervalMs != nil {
		cfg.ReconcileIntervalMs = *raw.ReconcileIntervalMs
	}
	if raw.Workspaces != nil {
		cfg.Workspaces = append([]string(nil), (*raw.Workspaces)...)
	}
	if raw.Hotkeys != nil {
		cfg.Hotkeys = make(map[string]string, len(*raw.Hotkeys))
		for k, v := range *raw.Hotkeys {
			cfg.Hotkeys[k] = v
		}
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = *raw.PaletteBackend
	}
	return cfg
}
