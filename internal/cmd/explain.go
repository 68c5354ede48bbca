package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gancho/internal/config"
	"gancho/internal/domain"
	"gancho/internal/services"
	"gancho/internal/theme"
)

// ExplainCmd simulates one event and reports which hooks would run for it,
// in dispatch order, and which matched hooks the definition filters would
// drop. Nothing is executed.
type ExplainCmd struct {
	Subject string `arg:"" help:"File path (or event subject text) to simulate"`
	Event   string `help:"Event type to simulate" default:"PreToolUse"`
	Tool    string `help:"Tool name to simulate on action events" default:"Write"`
	Dir     string `help:"Project directory (defaults to the current one)"`
}

// Run executes the explain command
func (e *ExplainCmd) Run(cli *CLI) error {
	if !domain.ValidEventType(e.Event) {
		return fmt.Errorf("unknown event type %q (valid: %s)", e.Event, eventTypeList())
	}

	dir := e.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	root := config.FindProjectRoot(dir)

	// The simulated document goes through the production parser so explain
	// can never drift from what a real dispatch would see.
	raw, err := e.buildEvent()
	if err != nil {
		return err
	}
	event, err := domain.ParseEvent(raw)
	if err != nil {
		return err
	}

	table, err := cli.Container.Loader.Load(root)
	if errors.Is(err, domain.ErrConfigAbsent) {
		fmt.Println("No routing configuration found; this event would be allowed.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s", theme.LabelStyle.Render("Event:  "), e.Event)
	if event.IsAction() {
		fmt.Printf(" (tool %s)", e.Tool)
	}
	fmt.Println()
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Subject:"), event.Subject())
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Table:  "), table.Path)
	fmt.Println()

	matcher := services.NewMatcher()
	matched := matcher.Match(event, table)
	if len(matched) == 0 {
		fmt.Println("No hooks match this event.")
		return nil
	}
	runnable := matcher.FilterHooks(event, matched, table, root)

	if len(runnable) > 0 {
		fmt.Println("Would run, in order:")
		for i, name := range runnable {
			desc, err := cli.Container.Resolver.Resolve(root, name, table.Definition(name))
			if err != nil {
				fmt.Printf("  %d. %-20s %s\n", i+1, name,
					theme.WarnStyle.Render("skipped at run time: "+err.Error()))
				continue
			}
			fmt.Printf("  %d. %-20s %-9s %s\n", i+1, name, desc.Source,
				theme.MutedStyle.Render(strings.Join(desc.Argv, " ")))
		}
	} else {
		fmt.Println("All matching hooks are filtered out.")
	}

	if dropped := e.droppedHooks(event, table, matched, runnable); len(dropped) > 0 {
		fmt.Println("\nMatched but filtered out:")
		for _, d := range dropped {
			fmt.Printf("  %-20s %s\n", d.name, theme.MutedStyle.Render(d.reason))
		}
	}

	return nil
}

// buildEvent assembles the simulated host document, placing the subject in
// whichever field the event type reads it from.
func (e *ExplainCmd) buildEvent() ([]byte, error) {
	doc := map[string]any{"hook_event_name": e.Event}

	switch domain.EventType(e.Event) {
	case domain.PreToolUse, domain.PostToolUse:
		doc["tool_name"] = e.Tool
		if e.Tool == "Bash" {
			doc["tool_input"] = map[string]any{"command": e.Subject}
		} else {
			doc["tool_input"] = map[string]any{"file_path": e.Subject}
		}
	case domain.Notification:
		doc["message"] = e.Subject
	case domain.UserPromptSubmit:
		doc["prompt"] = e.Subject
	case domain.SessionStart:
		doc["source"] = e.Subject
	case domain.PreCompact:
		doc["trigger"] = e.Subject
	}

	return json.Marshal(doc)
}

type droppedHook struct {
	name   string
	reason string
}

// droppedHooks explains the difference between the matched and runnable
// sets, mirroring the definition filters the dispatcher applies.
func (e *ExplainCmd) droppedHooks(event *domain.Event, table *config.RoutingTable, matched, runnable []string) []droppedHook {
	kept := make(map[string]bool, len(runnable))
	for _, name := range runnable {
		kept[name] = true
	}

	var dropped []droppedHook
	for _, name := range matched {
		if kept[name] {
			continue
		}
		reason := "file globs do not match"
		if def := table.Definition(name); def != nil && def.Disabled {
			reason = "disabled"
		}
		dropped = append(dropped, droppedHook{name: name, reason: reason})
	}
	return dropped
}
