package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"gancho/internal/cmd"
	"gancho/internal/config"
	"gancho/internal/domain"
	"gancho/internal/version"
)

func main() {
	// Load settings from ~/.gancho/settings.json
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = &config.Settings{} // Use empty settings
	}

	// Parse CLI arguments with Kong
	// Container is created in CLI.AfterApply() after logging is initialized
	var cli cmd.CLI
	cli.SetSettings(settings) // Set settings before parsing
	ctx := kong.Parse(&cli,
		kong.Name("gancho"),
		kong.Description(version.Tagline),
		kong.Vars{
			"version": version.Info(),
		},
		kong.UsageOnError(),
		kong.Bind(&cli),
	)
	defer cli.Close()

	// Execute the selected command
	err = ctx.Run()
	if err == nil {
		return
	}

	// Commands that speak the host protocol exit with a specific code
	// (2 = block) and carry the text that belongs on stderr.
	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
