package config

import (
	"os"
	"path/filepath"

	"gancho/internal/domain"
	"gancho/internal/logging"
)

// FindProjectRoot returns the nearest ancestor of workdir (workdir included)
// containing a .claude or .git entry. When no marker exists anywhere up the
// tree, workdir itself is the root.
func FindProjectRoot(workdir string) string {
	dir := workdir
	if abs, err := filepath.Abs(workdir); err == nil {
		dir = abs
	}

	for probe := dir; ; {
		if hasMarker(probe, ".claude") || hasMarker(probe, ".git") {
			return probe
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return dir
		}
		probe = parent
	}
}

func hasMarker(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// CandidatePaths returns the routing files consulted for a project root,
// strongest first: machine-local overrides, then the project file, then the
// user-global file.
func CandidatePaths(root string) []string {
	return []string{
		filepath.Join(root, ".claude", "hooks.local.json"),
		filepath.Join(root, ".claude", "hooks.json"),
		filepath.Join(UserClaudeDir(), "hooks.json"),
	}
}

// FileLoader reads routing tables from disk. Every Load hits the disk again
// so edits apply on the next dispatch without restarting anything.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load returns the first candidate that parses as a routing table.
// Candidates that fail to parse are logged and skipped so a broken override
// degrades to the next file instead of disabling dispatch with no trace.
// Returns domain.ErrConfigAbsent when no candidate yields a table.
func (l *FileLoader) Load(root string) (*RoutingTable, error) {
	for _, path := range CandidatePaths(root) {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Logger.Warn("Routing file unreadable, skipping", "path", path, "error", err)
			}
			continue
		}

		table, err := ParseRoutingTable(data)
		if err != nil {
			logging.Logger.Warn("Routing file malformed, skipping", "path", path, "error", err)
			continue
		}

		table.Path = path
		for _, warning := range table.Warnings {
			logging.Logger.Warn("Routing table entry ignored", "path", path, "detail", warning)
		}
		return table, nil
	}
	return nil, domain.ErrConfigAbsent
}
