package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// FileScope narrows which write targets any hook may act on, on top of
// per-hook files globs. Both lists travel to hooks via the environment;
// enforcement stays in the hooks themselves.
type FileScope struct {
	Allow StringArray `json:"allow,omitempty"`
	Deny  StringArray `json:"deny,omitempty"`
}

// Settings represents the structure of ~/.gancho/settings.json. The file is
// JSON5 so operators can keep comments and trailing commas in it.
type Settings struct {
	Debug               *bool     `json:"debug,omitempty"`
	DebugFile           string    `json:"debug_file,omitempty"`
	MaxLogFiles         *int      `json:"max_log_files,omitempty"`
	FailFast            *bool     `json:"fail_fast,omitempty"`
	HookTimeoutSeconds  *int      `json:"hook_timeout_seconds,omitempty"`
	StdinTimeoutSeconds *int      `json:"stdin_timeout_seconds,omitempty"`
	Files               FileScope `json:"files,omitempty"`
}

// LoadSettings loads settings from $GANCHO_HOME/settings.json (or
// ~/.gancho/settings.json if not set).
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	path := SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json5.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DebugFile != "" {
		settings.DebugFile = ExpandPath(settings.DebugFile)
	}

	return &settings, nil
}
