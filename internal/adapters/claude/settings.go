// Package claude manages gancho's registration in the Claude Code host:
// it merges forwarding entries into the host's settings.json so that
// lifecycle events reach `gancho run`, and seeds a starter routing file.
package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gancho/internal/domain"
	"gancho/internal/logging"
)

// hookCommand is one command entry in the host's hooks configuration.
type hookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// matcherGroup is one matcher block under an event key in settings.json.
// Only the fields gancho writes are typed; existing groups are kept as raw
// JSON so foreign fields survive a rewrite.
type matcherGroup struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookCommand `json:"hooks"`
}

// Installer writes gancho's event forwarding into a Claude settings
// directory. command is the full invocation the host should run, e.g.
// "/usr/local/bin/gancho run".
type Installer struct {
	command string
}

// NewInstaller creates an Installer that registers the given run command.
func NewInstaller(command string) *Installer {
	return &Installer{command: command}
}

// Register merges forwarding entries for every known event into
// dir/settings.json, preserving everything else in the file. Events that
// already invoke gancho are left alone unless force is set, in which case
// their gancho entries are replaced with the current command. Returns true
// when the file was written.
func (i *Installer) Register(dir string, force bool) (bool, error) {
	path := filepath.Join(dir, "settings.json")

	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}

	hooks, err := decodeHooks(settings["hooks"])
	if err != nil {
		return false, fmt.Errorf("settings file %s has an unexpected hooks section: %w", path, err)
	}

	changed := false
	for _, event := range domain.EventTypes {
		key := string(event)
		groups, replaced := dropOwnGroups(hooks[key])
		if replaced && !force {
			// Already registered; keep whatever is there.
			continue
		}

		entry, err := json.Marshal(i.group(event))
		if err != nil {
			return false, err
		}
		hooks[key] = append(groups, entry)
		changed = true
	}

	if !changed {
		logging.Logger.Debug("Host registration already current", "path", path)
		return false, nil
	}

	encoded, err := json.Marshal(hooks)
	if err != nil {
		return false, err
	}
	settings["hooks"] = encoded

	if err := writeJSONFile(path, settings); err != nil {
		return false, err
	}

	logging.Logger.Info("Registered dispatcher in host settings", "path", path, "command", i.command)
	return true, nil
}

// group builds the matcher block gancho installs for an event. Action events
// carry an explicit catch-all matcher; the host treats the other events as
// unconditional.
func (i *Installer) group(event domain.EventType) matcherGroup {
	g := matcherGroup{
		Hooks: []hookCommand{{Type: "command", Command: i.command}},
	}
	if event == domain.PreToolUse || event == domain.PostToolUse {
		g.Matcher = "*"
	}
	return g
}

// readSettings loads settings.json as a raw key map so unknown top-level
// keys round-trip untouched. A missing file yields an empty map.
func readSettings(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	settings := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("refusing to rewrite malformed settings file %s: %w", path, err)
	}
	return settings, nil
}

// decodeHooks splits the hooks section into per-event raw groups.
func decodeHooks(raw json.RawMessage) (map[string][]json.RawMessage, error) {
	hooks := map[string][]json.RawMessage{}
	if len(raw) == 0 {
		return hooks, nil
	}
	if err := json.Unmarshal(raw, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// dropOwnGroups filters out matcher groups whose only commands invoke
// gancho, reporting whether any were present. Mixed groups (gancho plus
// user commands) are treated as foreign and kept.
func dropOwnGroups(groups []json.RawMessage) ([]json.RawMessage, bool) {
	kept := make([]json.RawMessage, 0, len(groups))
	found := false
	for _, raw := range groups {
		var g matcherGroup
		if err := json.Unmarshal(raw, &g); err != nil || !ownGroup(g) {
			kept = append(kept, raw)
			continue
		}
		found = true
	}
	return kept, found
}

// ownGroup reports whether every command in the group is a gancho run
// invocation, regardless of where the binary lives.
func ownGroup(g matcherGroup) bool {
	if len(g.Hooks) == 0 {
		return false
	}
	for _, h := range g.Hooks {
		fields := strings.Fields(h.Command)
		if len(fields) < 2 || fields[1] != "run" {
			return false
		}
		if filepath.Base(fields[0]) != "gancho" {
			return false
		}
	}
	return true
}

// starterRouting is the routing file seeded next to the host settings. It
// parses cleanly and routes nothing until the user fills it in.
var starterRouting = []byte(`{
  "version": 1,
  "hooks": {},
  "PreToolUse": {},
  "PostToolUse": {},
  "Stop": []
}
`)

// SeedRouting writes a starter hooks.json into dir unless one already
// exists. Returns true when the file was created.
func (i *Installer) SeedRouting(dir string) (bool, error) {
	path := filepath.Join(dir, "hooks.json")
	if _, err := os.Stat(path); err == nil {
		logging.Logger.Debug("Routing file already exists, not seeding", "path", path)
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := os.WriteFile(path, starterRouting, 0o644); err != nil {
		return false, err
	}
	logging.Logger.Info("Seeded starter routing file", "path", path)
	return true, nil
}

// writeJSONFile marshals v with the host's two-space indentation.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
