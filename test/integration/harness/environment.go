package harness

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated environment for one test: its own
// GANCHO_HOME, its own user-level Claude directory, and a scratch project
// that commands run inside.
type TestEnvironment struct {
	GanchoHome string // settings.json and debug logs land here
	ClaudeDir  string // user-level hooks.json and hooks/ directory
	ProjectDir string // working directory for commands; contains .claude/
	extraEnv   map[string]string
	tb         testing.TB
}

// NewTestEnvironment creates an isolated test environment with a scratch
// project that already carries an empty .claude/hooks directory, so project
// root discovery resolves to it. The temp directories are automatically
// cleaned up when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	base := tb.TempDir()
	env := &TestEnvironment{
		GanchoHome: filepath.Join(base, "gancho-home"),
		ClaudeDir:  filepath.Join(base, "claude-user"),
		ProjectDir: filepath.Join(base, "project"),
		extraEnv:   make(map[string]string),
		tb:         tb,
	}

	for _, dir := range []string{
		env.GanchoHome,
		filepath.Join(env.ClaudeDir, "hooks"),
		filepath.Join(env.ProjectDir, ".claude", "hooks"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			tb.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return env
}

// Environ returns environment variables configured for test isolation.
// It filters out GANCHO_* variables and sets:
//   - GANCHO_HOME to the temp directory
//   - GANCHO_DEBUG to empty string (disables debug logging)
//   - CLAUDE_CONFIG_DIR to the temp user-level directory
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+3+len(e.extraEnv))

	// Build a set of keys we want to override
	overrideKeys := make(map[string]bool)
	overrideKeys["GANCHO_HOME"] = true
	overrideKeys["GANCHO_DEBUG"] = true
	overrideKeys["CLAUDE_CONFIG_DIR"] = true
	for k := range e.extraEnv {
		overrideKeys[k] = true
	}

	// Filter out existing GANCHO_* variables and any we're overriding
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		key := parts[0]
		if strings.HasPrefix(key, "GANCHO_") || overrideKeys[key] {
			continue
		}
		env = append(env, kv)
	}

	// Add isolated environment variables
	env = append(env,
		"GANCHO_HOME="+e.GanchoHome,
		"GANCHO_DEBUG=",
		"CLAUDE_CONFIG_DIR="+e.ClaudeDir,
	)

	// Add extra environment variables
	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	if e.extraEnv == nil {
		e.extraEnv = make(map[string]string)
	}
	e.extraEnv[key] = value
}

// WriteSettings writes settings.json in GANCHO_HOME.
func (e *TestEnvironment) WriteSettings(content string) {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.GanchoHome, "settings.json"), content, 0o644)
}

// WriteProjectRouting writes the project's .claude/hooks.json.
func (e *TestEnvironment) WriteProjectRouting(content string) {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.ProjectDir, ".claude", "hooks.json"), content, 0o644)
}

// WriteLocalRouting writes the project's .claude/hooks.local.json, which
// shadows hooks.json.
func (e *TestEnvironment) WriteLocalRouting(content string) {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.ProjectDir, ".claude", "hooks.local.json"), content, 0o644)
}

// WriteUserRouting writes the user-global hooks.json under CLAUDE_CONFIG_DIR.
func (e *TestEnvironment) WriteUserRouting(content string) {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.ClaudeDir, "hooks.json"), content, 0o644)
}

// WriteProjectHook installs an executable shell script in the project's
// .claude/hooks directory and returns its name. The script body runs under
// /bin/sh with the event document on stdin.
func (e *TestEnvironment) WriteProjectHook(name, script string) string {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.ProjectDir, ".claude", "hooks", name), "#!/bin/sh\n"+script+"\n", 0o755)
	return name
}

// WriteUserHook installs an executable shell script in the user-global hooks
// directory and returns its name.
func (e *TestEnvironment) WriteUserHook(name, script string) string {
	e.tb.Helper()
	e.writeFile(filepath.Join(e.ClaudeDir, "hooks", name), "#!/bin/sh\n"+script+"\n", 0o755)
	return name
}

// ScratchPath returns a path inside the project directory that hook scripts
// can write to so tests can observe side effects.
func (e *TestEnvironment) ScratchPath(name string) string {
	return filepath.Join(e.ProjectDir, name)
}

// Event builds an event document of the given type. cwd and session_id are
// filled in automatically; extra top-level fields (tool_name, tool_input,
// message, ...) come from fields and may override the defaults.
func (e *TestEnvironment) Event(eventType string, fields map[string]any) string {
	e.tb.Helper()

	doc := map[string]any{
		"hook_event_name": eventType,
		"session_id":      "itest-session",
		"cwd":             e.ProjectDir,
	}
	for k, v := range fields {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		e.tb.Fatalf("Failed to marshal event: %v", err)
	}
	return string(data)
}

// BashEvent builds a PreToolUse event for a shell command, the most common
// dispatch fixture.
func (e *TestEnvironment) BashEvent(command string) string {
	e.tb.Helper()
	return e.Event("PreToolUse", map[string]any{
		"tool_name":  "Bash",
		"tool_input": map[string]any{"command": command},
	})
}

// WriteEvent builds a PreToolUse event for a file write.
func (e *TestEnvironment) WriteEvent(path, content string) string {
	e.tb.Helper()
	return e.Event("PreToolUse", map[string]any{
		"tool_name":  "Write",
		"tool_input": map[string]any{"file_path": path, "content": content},
	})
}

func (e *TestEnvironment) writeFile(path, content string, mode os.FileMode) {
	e.tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.tb.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		e.tb.Fatalf("Failed to write %s: %v", path, err)
	}
}
