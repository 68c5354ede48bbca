package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gancho/internal/adapters/claude"
	"gancho/internal/config"
)

// SetupCmd registers gancho in the host's Claude settings so lifecycle
// events are forwarded to `gancho run`, and seeds a starter routing file.
type SetupCmd struct {
	User  bool   `help:"Register in the user-level Claude settings instead of the project"`
	Force bool   `help:"Rewrite existing gancho entries (use after moving the binary)"`
	Dir   string `arg:"" optional:"" help:"Project directory (defaults to the current one)"`
}

// Run executes the setup command
func (s *SetupCmd) Run() error {
	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get gancho binary path: %w", err)
	}
	command := bin + " run"

	var root, claudeDir string
	if s.User {
		claudeDir = config.UserClaudeDir()
	} else {
		dir := s.Dir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			dir = wd
		}
		root = config.FindProjectRoot(dir)
		claudeDir = filepath.Join(root, ".claude")
	}

	// The hooks directory is where project hook executables live; creating
	// it up front makes `gancho validate` output self-explanatory.
	if err := os.MkdirAll(filepath.Join(claudeDir, "hooks"), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", claudeDir, err)
	}

	installer := claude.NewInstaller(command)

	changed, err := installer.Register(claudeDir, s.Force)
	if err != nil {
		return err
	}
	settingsPath := filepath.Join(claudeDir, "settings.json")
	if changed {
		fmt.Printf("✓ Registered gancho in %s\n", settingsPath)
	} else {
		fmt.Printf("✓ Already registered in %s\n", settingsPath)
	}

	created, err := installer.SeedRouting(claudeDir)
	if err != nil {
		return err
	}
	routingPath := filepath.Join(claudeDir, "hooks.json")
	if created {
		fmt.Printf("✓ Created starter %s\n", routingPath)
	} else {
		fmt.Printf("✓ Keeping existing %s\n", routingPath)
	}

	if !s.User {
		if err := s.updateGitignore(root); err != nil {
			return err
		}
	}

	fmt.Println("\nHooks will run automatically when the host emits events.")
	fmt.Println("You can now:")
	fmt.Printf("  - Route hooks by editing %s\n", routingPath)
	fmt.Printf("  - Drop hook executables into %s\n", filepath.Join(claudeDir, "hooks"))
	fmt.Println("  - Check the wiring: gancho validate")

	return nil
}

// updateGitignore keeps personal routing overrides out of version control.
// Projects without a .gitignore are left alone.
func (s *SetupCmd) updateGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .gitignore: %w", err)
	}

	if strings.Contains(string(content), ".claude/hooks.local.json") {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open .gitignore: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n# Personal hook overrides\n.claude/hooks.local.json\n"); err != nil {
		return fmt.Errorf("failed to write to .gitignore: %w", err)
	}

	fmt.Println("✓ Added .claude/hooks.local.json to .gitignore")
	return nil
}
