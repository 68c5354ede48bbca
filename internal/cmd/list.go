package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gancho/internal/config"
	"gancho/internal/domain"
)

// ListCmd shows the hooks the active routing table would run, per event and
// matcher, with the command each one resolves to.
type ListCmd struct {
	Event  string `help:"Filter by event type" short:"e"`
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Dir    string `arg:"" optional:"" help:"Project directory (defaults to the current one)"`
}

// listRow is one routed hook occurrence.
type listRow struct {
	Event    string `json:"event"`
	Matcher  string `json:"matcher"`
	Hook     string `json:"hook"`
	Source   string `json:"source"`
	Command  string `json:"command"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Run executes the list command
func (l *ListCmd) Run(cli *CLI) error {
	if l.Event != "" && !domain.ValidEventType(l.Event) {
		return fmt.Errorf("unknown event type %q (valid: %s)", l.Event, eventTypeList())
	}

	dir := l.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	root := config.FindProjectRoot(dir)

	table, err := cli.Container.Loader.Load(root)
	if errors.Is(err, domain.ErrConfigAbsent) {
		if l.Format == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No hooks configured.")
		}
		return nil
	}
	if err != nil {
		return err
	}

	rows := l.collectRows(cli, table, root)

	switch l.Format {
	case "json":
		l.renderJSON(rows)
	default:
		l.renderTable(table.Path, rows)
	}

	return nil
}

// collectRows flattens the routing tree into display rows, in the order a
// dispatch would consider them.
func (l *ListCmd) collectRows(cli *CLI, table *config.RoutingTable, root string) []listRow {
	var rows []listRow

	appendRows := func(event domain.EventType, matcher string, hooks []string) {
		for _, name := range hooks {
			row := listRow{
				Event:   string(event),
				Matcher: matcher,
				Hook:    name,
			}

			desc, err := cli.Container.Resolver.Resolve(root, name, table.Definition(name))
			if err != nil {
				row.Source = "missing"
				row.Command = err.Error()
			} else {
				row.Source = string(desc.Source)
				row.Command = strings.Join(desc.Argv, " ")
				row.Disabled = desc.Disabled
			}
			rows = append(rows, row)
		}
	}

	for _, event := range domain.EventTypes {
		if l.Event != "" && string(event) != l.Event {
			continue
		}
		node := table.Route(event)
		if node == nil {
			continue
		}

		if node.Hooks != nil {
			appendRows(event, "*", node.Hooks)
		}
		for _, entry := range node.Entries {
			if entry.Node.Hooks != nil {
				appendRows(event, entry.Key, entry.Node.Hooks)
			}
			for _, sub := range entry.Node.Entries {
				if sub.Node.Hooks != nil {
					appendRows(event, entry.Key+": "+sub.Key, sub.Node.Hooks)
				}
			}
		}
	}

	return rows
}

// renderTable displays routed hooks in table format
func (l *ListCmd) renderTable(path string, rows []listRow) {
	fmt.Printf("Hooks from %s\n\n", path)

	if len(rows) == 0 {
		fmt.Println("No hooks routed.")
		return
	}

	// Header
	fmt.Println("Event             Matcher               Hook                  Source    Command")
	fmt.Println(strings.Repeat("─", 100))

	// Data rows
	for _, row := range rows {
		command := row.Command
		if row.Disabled {
			command += " (disabled)"
		}

		fmt.Printf("%-17s %-21s %-21s %-9s %s\n",
			truncate(row.Event, 17),
			truncate(row.Matcher, 21),
			truncate(row.Hook, 21),
			row.Source,
			command)
	}
}

// renderJSON displays routed hooks in JSON format
func (l *ListCmd) renderJSON(rows []listRow) {
	if len(rows) == 0 {
		fmt.Println("[]")
		return
	}

	output, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}

	fmt.Println(string(output))
}

// truncate shortens s to fit a column of the given width.
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// eventTypeList returns the known event types as one comma-separated string.
func eventTypeList() string {
	names := make([]string, len(domain.EventTypes))
	for i, event := range domain.EventTypes {
		names[i] = string(event)
	}
	return strings.Join(names, ", ")
}
