package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gancho/internal/config"
	"gancho/internal/domain"
)

func TestResolve_AdHocCommandFromDefinition(t *testing.T) {
	def := &config.HookDefinition{
		Command: `sh -c "echo hi"`,
		Config:  json.RawMessage(`{"max_age_days": 180}`),
		Files:   config.StringArray{"**/*.go"},
		Timeout: 60,
	}

	desc, err := New().Resolve(t.TempDir(), "package-age", def)
	require.NoError(t, err)

	assert.Equal(t, "package-age", desc.Name)
	assert.Equal(t, domain.SourceAdHoc, desc.Source)
	assert.Equal(t, []string{"sh", "-c", "echo hi"}, desc.Argv)
	assert.JSONEq(t, `{"max_age_days": 180}`, string(desc.Config))
	assert.Equal(t, []string{"**/*.go"}, desc.Files)
	assert.Equal(t, 60*time.Second, desc.Timeout)
	assert.False(t, desc.Disabled)
}

func TestResolve_IdentifierWithPathIsAdHoc(t *testing.T) {
	root := t.TempDir()
	writeScript(t, filepath.Join(root, "scripts", "check.sh"))

	desc, err := New().Resolve(root, "./scripts/check.sh", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAdHoc, desc.Source)
	assert.Equal(t, []string{filepath.Join(root, "scripts", "check.sh")}, desc.Argv)
}

func TestResolve_IdentifierWithArgsIsAdHoc(t *testing.T) {
	desc, err := New().Resolve(t.TempDir(), "sh -c true", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAdHoc, desc.Source)
	assert.Equal(t, []string{"sh", "-c", "true"}, desc.Argv)
}

func TestResolve_ProjectHookDirectory(t *testing.T) {
	t.Setenv("CLAUDE_CONFIG_DIR", t.TempDir())

	root := t.TempDir()
	path := filepath.Join(root, ".claude", "hooks", "lint")
	writeScript(t, path)

	desc, err := New().Resolve(root, "lint", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceProject, desc.Source)
	assert.Equal(t, []string{path}, desc.Argv)
}

func TestResolve_ProjectBeatsBuiltin(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", userDir)
	writeScript(t, filepath.Join(userDir, "hooks", "lint"))

	root := t.TempDir()
	projectPath := filepath.Join(root, ".claude", "hooks", "lint")
	writeScript(t, projectPath)

	desc, err := New().Resolve(root, "lint", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceProject, desc.Source)
	assert.Equal(t, []string{projectPath}, desc.Argv)
}

func TestResolve_BuiltinFallback(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", userDir)
	userPath := filepath.Join(userDir, "hooks", "lint")
	writeScript(t, userPath)

	desc, err := New().Resolve(t.TempDir(), "lint", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceBuiltin, desc.Source)
	assert.Equal(t, []string{userPath}, desc.Argv)
}

func TestResolve_DefinitionCommandBeatsProjectFile(t *testing.T) {
	t.Setenv("CLAUDE_CONFIG_DIR", t.TempDir())

	root := t.TempDir()
	writeScript(t, filepath.Join(root, ".claude", "hooks", "lint"))

	desc, err := New().Resolve(root, "lint", &config.HookDefinition{Command: "sh -c true"})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceAdHoc, desc.Source)
	assert.Equal(t, []string{"sh", "-c", "true"}, desc.Argv)
}

func TestResolve_NotFound(t *testing.T) {
	t.Setenv("CLAUDE_CONFIG_DIR", t.TempDir())

	_, err := New().Resolve(t.TempDir(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrHookNotFound)
}

func TestResolve_ResolutionFailures(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		def  *config.HookDefinition
	}{
		{"program not in PATH", &config.HookDefinition{Command: "gancho-test-no-such-binary --flag"}},
		{"path does not exist", &config.HookDefinition{Command: "./missing/hook.sh"}},
		{"unbalanced quoting", &config.HookDefinition{Command: `sh -c "broken`}},
		{"empty after split", &config.HookDefinition{Command: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Resolve(root, "hook", tt.def)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrHookNotFound)
		})
	}
}

func writeScript(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))
}
