package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gancho/test/integration/harness"
)

// hostSettings mirrors the slice of the host settings file the tests care
// about.
type hostSettings struct {
	Model string `json:"model"`
	Hooks map[string][]struct {
		Matcher string `json:"matcher"`
		Hooks   []struct {
			Type    string `json:"type"`
			Command string `json:"command"`
		} `json:"hooks"`
	} `json:"hooks"`
}

func readHostSettings(t *testing.T, claudeDir string) hostSettings {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	require.NoError(t, err)
	var settings hostSettings
	require.NoError(t, json.Unmarshal(data, &settings))
	return settings
}

func TestSetup(t *testing.T) {
	t.Run("fresh project registers every event and seeds routing", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)

		result := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, result)
		harness.AssertStdoutContains(t, result, "✓ Registered gancho in")
		harness.AssertStdoutContains(t, result, "✓ Created starter")

		claudeDir := filepath.Join(env.ProjectDir, ".claude")
		settings := readHostSettings(t, claudeDir)

		wantEvents := []string{
			"PreToolUse", "PostToolUse", "Stop", "SubagentStop",
			"Notification", "UserPromptSubmit", "SessionStart", "PreCompact",
		}
		require.Len(t, settings.Hooks, len(wantEvents))
		for _, event := range wantEvents {
			groups := settings.Hooks[event]
			require.Len(t, groups, 1, "event %s should have one group", event)
			require.Len(t, groups[0].Hooks, 1)
			require.Equal(t, "command", groups[0].Hooks[0].Type)
			require.True(t, strings.HasSuffix(groups[0].Hooks[0].Command, "gancho run"),
				"command should invoke gancho run, got %q", groups[0].Hooks[0].Command)
		}
		require.Equal(t, "*", settings.Hooks["PreToolUse"][0].Matcher)
		require.Empty(t, settings.Hooks["Stop"][0].Matcher)

		routing, err := os.ReadFile(filepath.Join(claudeDir, "hooks.json"))
		require.NoError(t, err)
		require.Contains(t, string(routing), `"version": 1`)

		// The seeded routing file must pass validation untouched.
		check := harness.RunCommand(t, env, "validate")
		harness.AssertSuccess(t, check)
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)

		first := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, first)

		settingsPath := filepath.Join(env.ProjectDir, ".claude", "settings.json")
		before, err := os.ReadFile(settingsPath)
		require.NoError(t, err)

		second := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, second)
		harness.AssertStdoutContains(t, second, "✓ Already registered in")
		harness.AssertStdoutContains(t, second, "✓ Keeping existing")

		after, err := os.ReadFile(settingsPath)
		require.NoError(t, err)
		require.Equal(t, string(before), string(after))
	})

	t.Run("existing host settings are preserved", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)
		settingsPath := filepath.Join(env.ProjectDir, ".claude", "settings.json")
		require.NoError(t, os.WriteFile(settingsPath, []byte(`{"model": "opus"}`), 0o644))

		result := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, result)

		settings := readHostSettings(t, filepath.Join(env.ProjectDir, ".claude"))
		require.Equal(t, "opus", settings.Model)
		require.Len(t, settings.Hooks, 8)
	})

	t.Run("existing routing file is never overwritten", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)
		env.WriteProjectRouting(`{"version":1,"Stop":["summary"]}`)

		result := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, result)
		harness.AssertStdoutContains(t, result, "✓ Keeping existing")

		routing, err := os.ReadFile(filepath.Join(env.ProjectDir, ".claude", "hooks.json"))
		require.NoError(t, err)
		require.Equal(t, `{"version":1,"Stop":["summary"]}`, string(routing))
	})

	t.Run("gitignore gains the local override entry once", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)
		gitignorePath := filepath.Join(env.ProjectDir, ".gitignore")
		require.NoError(t, os.WriteFile(gitignorePath, []byte("node_modules/\n"), 0o644))

		first := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, first)
		harness.AssertStdoutContains(t, first, "✓ Added .claude/hooks.local.json to .gitignore")

		second := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, second)

		content, err := os.ReadFile(gitignorePath)
		require.NoError(t, err)
		require.Contains(t, string(content), "node_modules/")
		require.Equal(t, 1, strings.Count(string(content), ".claude/hooks.local.json"))
	})

	t.Run("projects without a gitignore are left alone", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)

		result := harness.RunCommand(t, env, "setup")
		harness.AssertSuccess(t, result)

		_, err := os.Stat(filepath.Join(env.ProjectDir, ".gitignore"))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("user mode registers in the user claude directory", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)

		result := harness.RunCommand(t, env, "setup", "--user")
		harness.AssertSuccess(t, result)
		harness.AssertStdoutContains(t, result, env.ClaudeDir)

		settings := readHostSettings(t, env.ClaudeDir)
		require.Len(t, settings.Hooks, 8)

		// Project settings stay untouched in user mode.
		_, err := os.Stat(filepath.Join(env.ProjectDir, ".claude", "settings.json"))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("force rewrites entries after the binary moved", func(t *testing.T) {
		env := harness.NewTestEnvironment(t)
		claudeDir := filepath.Join(env.ProjectDir, ".claude")
		stale := `{"hooks":{"Stop":[{"hooks":[{"type":"command","command":"/old/path/gancho run"}]}]}}`
		require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "settings.json"), []byte(stale), 0o644))

		result := harness.RunCommand(t, env, "setup", "--force")
		harness.AssertSuccess(t, result)

		settings := readHostSettings(t, claudeDir)
		for event, groups := range settings.Hooks {
			for _, group := range groups {
				for _, hook := range group.Hooks {
					require.NotContains(t, hook.Command, "/old/path", "stale command left in %s", event)
				}
			}
		}
	})
}
