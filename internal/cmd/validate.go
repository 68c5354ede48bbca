package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"gancho/internal/config"
	"gancho/internal/logging"
	"gancho/internal/theme"
)

// ValidateCmd checks the routing configuration the way a dispatch would see
// it: every candidate file is parsed, patterns are compiled and every routed
// hook is resolved to a command.
type ValidateCmd struct {
	Watch bool   `help:"Keep running and re-validate whenever a routing file changes" short:"w"`
	Dir   string `arg:"" optional:"" help:"Project directory (defaults to the current one)"`
}

// Run executes the validation
func (v *ValidateCmd) Run(cli *CLI) error {
	dir := v.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	root := config.FindProjectRoot(dir)

	problems := v.validateOnce(cli, root)

	if v.Watch {
		return v.watch(cli, root)
	}

	switch problems {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("1 problem found")
	default:
		return fmt.Errorf("%d problems found", problems)
	}
}

// validateOnce prints one full validation report and returns the number of
// problems it found.
func (v *ValidateCmd) validateOnce(cli *CLI, root string) int {
	problems := 0

	fmt.Printf("Project root: %s\n\n", root)
	fmt.Println("Routing files:")

	// Styles wrap the padded text so the ANSI escapes do not skew the
	// column widths.
	status := func(style lipgloss.Style, word string) string {
		return style.Render(fmt.Sprintf("%-9s", word))
	}

	var active *config.RoutingTable
	for _, path := range config.CandidatePaths(root) {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("  %s %s\n", status(theme.MutedStyle, "absent"), theme.MutedStyle.Render(path))
			continue
		}
		if err != nil {
			fmt.Printf("  %s %s: %v\n", status(theme.ErrorStyle, "error"), path, err)
			problems++
			continue
		}

		table, err := config.ParseRoutingTable(data)
		if err != nil {
			fmt.Printf("  %s %s: %v\n", status(theme.ErrorStyle, "invalid"), path, err)
			problems++
			continue
		}

		if active == nil {
			active = table
			active.Path = path
			fmt.Printf("  %s %s\n", status(theme.AllowStyle, "active"), path)
		} else {
			fmt.Printf("  %s %s\n", status(theme.MutedStyle, "shadowed"), theme.MutedStyle.Render(path))
		}
	}

	if active == nil {
		fmt.Println("\nNo routing configuration found; every event will be allowed.")
		return problems
	}

	if len(active.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range active.Warnings {
			fmt.Printf("  %s\n", theme.WarnStyle.Render(w))
		}
		problems += len(active.Warnings)
	}

	names := active.HookNames()
	if len(names) == 0 {
		fmt.Println("\nNo hooks routed.")
	} else {
		fmt.Println("\nHooks:")
		for _, name := range names {
			desc, err := cli.Container.Resolver.Resolve(root, name, active.Definition(name))
			if err != nil {
				fmt.Printf("  %-20s %s\n", name, theme.ErrorStyle.Render(err.Error()))
				problems++
				continue
			}

			command := strings.Join(desc.Argv, " ")
			if desc.Disabled {
				command += " (disabled)"
			}
			fmt.Printf("  %-20s %-9s %s\n", name, desc.Source, theme.MutedStyle.Render(command))
		}
	}

	if unrouted := v.unroutedDefinitions(active, names); len(unrouted) > 0 {
		fmt.Printf("\nDefined but not routed: %s\n", theme.MutedStyle.Render(strings.Join(unrouted, ", ")))
	}

	fmt.Println()
	if problems == 0 {
		fmt.Println(theme.AllowStyle.Render("Configuration OK"))
	}
	return problems
}

// unroutedDefinitions lists definitions no route refers to. They are legal
// (a hook can be routed in a file that shadows this one) but usually a typo.
func (v *ValidateCmd) unroutedDefinitions(table *config.RoutingTable, routed []string) []string {
	seen := make(map[string]bool, len(routed))
	for _, name := range routed {
		seen[name] = true
	}

	var unrouted []string
	for name := range table.Definitions {
		if !seen[name] {
			unrouted = append(unrouted, name)
		}
	}
	sort.Strings(unrouted)
	return unrouted
}

// watch blocks and re-validates whenever one of the candidate routing files
// changes. Editors replace files rather than rewriting them, so the parent
// directories are watched and events are filtered by name.
func (v *ValidateCmd) watch(cli *CLI, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	candidates := config.CandidatePaths(root)
	watched := make(map[string]bool, len(candidates))
	for _, path := range candidates {
		watched[path] = true

		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logging.Logger.Warn("Failed to watch directory", "dir", dir, "error", err)
		}
	}

	fmt.Println("\nWatching routing files for changes (Ctrl-C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			fmt.Printf("\n── %s changed at %s ──\n\n",
				filepath.Base(event.Name), time.Now().Format("15:04:05"))
			v.validateOnce(cli, root)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warn("Watcher error", "error", err)
		}
	}
}
