package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"gancho/internal/config"
	"gancho/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	Verbose     bool             `help:"Trace dispatch decisions and hook output on stderr" short:"v"`

	Run      RunCmd      `cmd:"run" help:"Read one event on stdin and dispatch it to matching hooks" hidden:""`
	Validate ValidateCmd `cmd:"validate" help:"Check the routing configuration and hook commands"`
	List     ListCmd     `cmd:"list" help:"Show configured hooks and what they match"`
	Explain  ExplainCmd  `cmd:"explain" help:"Show which hooks would run for a given file"`
	Setup    SetupCmd    `cmd:"setup" help:"Register gancho in the host's Claude settings"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		// Apply MaxLogFiles setting
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("GANCHO_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		// Apply Debug setting
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("GANCHO_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}

		// Apply DebugFile setting
		if c.DebugFile == "" {
			if _, hasEnv := os.LookupEnv("GANCHO_DEBUG_FILE"); !hasEnv {
				c.DebugFile = c.settings.DebugFile
			}
		}
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles, c.Verbose)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so the hooks we spawn
	// inherit debug settings and append to the SAME log file (important for
	// correlating dispatcher and hook log lines)
	if c.Debug || c.DebugFile != "" {
		os.Setenv("GANCHO_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("GANCHO_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("GANCHO_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// Create container AFTER logging is initialized
	container, err := NewContainer()
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
