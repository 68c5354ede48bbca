// Package registry resolves hook identifiers to invocable commands.
//
// A name can be supplied by three sources, strongest first: an explicit
// command line (from the routing file's definition block, or the identifier
// itself when it already looks like a command), an executable in the
// project's .claude/hooks directory, and an executable in the user-global
// .claude/hooks directory.
package registry

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"gancho/internal/config"
	"gancho/internal/domain"
	"gancho/internal/logging"
	"gancho/internal/ports"
)

// Registry resolves hook names against the filesystem and routing
// definitions. It is stateless; every Resolve call sees the current disk
// contents.
type Registry struct{}

var _ ports.HookResolver = (*Registry)(nil)

// New creates a Registry.
func New() *Registry {
	return &Registry{}
}

// Resolve maps name to a descriptor. def carries the routing file's optional
// definition for the name and may be nil. Resolution never runs anything; it
// only decides what would run and where the command came from.
func (r *Registry) Resolve(root, name string, def *config.HookDefinition) (*domain.HookDescriptor, error) {
	desc := &domain.HookDescriptor{Name: name}
	if def != nil {
		desc.Config = def.Config
		desc.Files = def.Files
		desc.Timeout = time.Duration(def.Timeout) * time.Second
		desc.Disabled = def.Disabled
	}

	command := ""
	switch {
	case def != nil && def.Command != "":
		command = def.Command
	case looksLikeCommand(name):
		command = name
	}

	if command != "" {
		argv, err := splitCommand(root, command)
		if err != nil {
			return nil, fmt.Errorf("hook %q: %w", name, err)
		}
		desc.Source = domain.SourceAdHoc
		desc.Argv = argv
		return desc, nil
	}

	for _, candidate := range []struct {
		source domain.Source
		path   string
	}{
		{domain.SourceProject, filepath.Join(root, ".claude", "hooks", name)},
		{domain.SourceBuiltin, filepath.Join(config.UserClaudeDir(), "hooks", name)},
	} {
		info, err := os.Stat(candidate.path)
		if err != nil || info.IsDir() {
			continue
		}
		logging.Logger.Debug("Hook resolved", "hook", name, "source", candidate.source, "path", candidate.path)
		desc.Source = candidate.source
		desc.Argv = []string{candidate.path}
		return desc, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrHookNotFound, name)
}

// looksLikeCommand reports whether a bare identifier is really a command
// line: anything with whitespace or a path separator in it.
func looksLikeCommand(name string) bool {
	return strings.ContainsAny(name, " \t/\\")
}

// splitCommand shell-splits a command line and pins its program down:
// a path is checked on disk (relative ones are anchored at the project
// root), a bare program name must be findable in PATH.
func splitCommand(root, command string) ([]string, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("unparsable command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	prog := argv[0]
	if strings.ContainsAny(prog, "/\\") {
		if !filepath.IsAbs(prog) {
			prog = filepath.Join(root, prog)
		}
		info, err := os.Stat(prog)
		if err != nil {
			return nil, fmt.Errorf("command not found: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("command %q is a directory", prog)
		}
		argv[0] = prog
		return argv, nil
	}

	if _, err := exec.LookPath(prog); err != nil {
		return nil, fmt.Errorf("command not found: %w", err)
	}
	return argv, nil
}
