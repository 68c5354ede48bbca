package config

import (
	"os"
	"path/filepath"
)

// GanchoHome returns GANCHO_HOME or ~/.gancho default
func GanchoHome() string {
	home := os.Getenv("GANCHO_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".gancho"
		}
		return filepath.Join(homeDir, ".gancho")
	}
	return ExpandPath(home)
}

// SettingsPath returns $GANCHO_HOME/settings.json
func SettingsPath() string {
	return filepath.Join(GanchoHome(), "settings.json")
}

// UserClaudeDir returns the host's user-level configuration directory.
// Checks CLAUDE_CONFIG_DIR environment variable first, then falls back to
// ~/.claude
func UserClaudeDir() string {
	if envDir := os.Getenv("CLAUDE_CONFIG_DIR"); envDir != "" {
		return ExpandPath(envDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".claude"
	}
	return filepath.Join(homeDir, ".claude")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
