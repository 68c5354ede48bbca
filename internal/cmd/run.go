package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	hookexec "gancho/internal/adapters/exec"
	"gancho/internal/domain"
	"gancho/internal/logging"
	"gancho/internal/services"
)

// RunCmd reads one event document on stdin, dispatches it to the matching
// hooks and reports the combined verdict through the process exit code:
// 0 allows the action, 2 blocks it, 1 means the event was unreadable.
type RunCmd struct {
	FailFast     bool `help:"Stop dispatching at the first blocking hook"`
	StdinTimeout int  `help:"Seconds to wait for the event document on stdin" default:"5"`
	Timeout      int  `help:"Per-hook timeout ceiling in seconds" default:"300"`
}

// blockDocument is the single stdout document emitted when a hook blocks.
type blockDocument struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Run executes the dispatch
func (r *RunCmd) Run(cli *CLI) error {
	// Apply RunCmd-specific settings with proper precedence
	// Only apply if flag is at default value

	if cli.settings != nil {
		// Apply FailFast setting
		if !r.FailFast {
			if cli.settings.FailFast != nil && *cli.settings.FailFast {
				r.FailFast = true
			}
		}

		// Apply Timeout setting
		if r.Timeout == 300 {
			if cli.settings.HookTimeoutSeconds != nil {
				r.Timeout = *cli.settings.HookTimeoutSeconds
			}
		}

		// Apply StdinTimeout setting
		if r.StdinTimeout == 5 {
			if cli.settings.StdinTimeoutSeconds != nil {
				r.StdinTimeout = *cli.settings.StdinTimeoutSeconds
			}
		}
	}

	// The host always pipes the event in. A terminal on stdin means a human
	// typed `gancho run` expecting something interactive.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("run is invoked by the host and expects one event document on stdin; try `gancho list` to inspect configured hooks")
	}

	raw, err := hookexec.ReadInput(os.Stdin, time.Duration(r.StdinTimeout)*time.Second)
	if err != nil {
		return &domain.ExitError{
			Code:    domain.ExitCodeFatal,
			Message: fmt.Sprintf("failed to read event: %v", err),
		}
	}

	workdir, err := os.Getwd()
	if err != nil {
		logging.Logger.Warn("Failed to determine working directory", "error", err)
	}

	opts := services.DispatchOptions{
		WorkDir:  workdir,
		FailFast: r.FailFast,
		Verbose:  cli.Verbose,
	}
	if cli.settings != nil {
		opts.FileAllow = cli.settings.Files.Allow
		opts.FileDeny = cli.settings.Files.Deny
	}

	runner := hookexec.NewRunner(time.Duration(r.Timeout)*time.Second, cli.Verbose)
	dispatcher := services.NewDispatcher(cli.Container.Loader, cli.Container.Resolver, runner, opts)

	result, err := dispatcher.Dispatch(context.Background(), raw)
	if err != nil {
		return &domain.ExitError{
			Code:    domain.ExitCodeFatal,
			Message: fmt.Sprintf("invalid event: %v", err),
		}
	}

	if result.Blocked() {
		// One block document on stdout for the host; the reason itself goes
		// to stderr via the exit error.
		if doc, err := json.Marshal(blockDocument{Decision: "block", Reason: result.Verdict.Reason}); err == nil {
			fmt.Println(string(doc))
		}
		return &domain.ExitError{
			Code:    domain.ExitCodeBlock,
			Message: result.Verdict.Reason,
		}
	}

	return nil
}
