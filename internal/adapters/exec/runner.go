// Package exec runs resolved hooks as child processes.
//
// Each hook gets the event document on stdin, an explicit environment, and a
// hard deadline. Stdout and stderr are drained concurrently while the run is
// supervised, so a hook that fills a pipe can never deadlock the dispatch,
// and a hook that ignores the deadline is killed together with everything it
// spawned.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"gancho/internal/domain"
	"gancho/internal/logging"
	"gancho/internal/ports"
)

// Runner executes hook descriptors sequentially, one child process each.
type Runner struct {
	defaultTimeout time.Duration
	verbose        bool
}

var _ ports.HookRunner = (*Runner)(nil)

// NewRunner creates a Runner. defaultTimeout is the hard per-hook ceiling;
// zero or negative selects the built-in default. verbose additionally echoes
// hook output to stderr as it arrives.
func NewRunner(defaultTimeout time.Duration, verbose bool) *Runner {
	if defaultTimeout <= 0 {
		defaultTimeout = domain.DefaultHookTimeout
	}
	return &Runner{defaultTimeout: defaultTimeout, verbose: verbose}
}

// Run starts the descriptor's command, writes input to its stdin, and waits
// for it to finish or hit its deadline. Spawn failures come back as a
// synthetic exit-127 result rather than an error: a missing hook must never
// take the whole dispatch down.
func (r *Runner) Run(ctx context.Context, desc *domain.HookDescriptor, input []byte, env domain.ExecEnv) (domain.ExecutionResult, error) {
	timeout := r.defaultTimeout
	if desc.Timeout > 0 && desc.Timeout < timeout {
		timeout = desc.Timeout
	}

	cmd := osexec.Command(desc.Argv[0], desc.Argv[1:]...)
	cmd.Dir = env.Dir
	cmd.Env = append(os.Environ(), env.Vars...)
	cmd.Stdin = bytes.NewReader(input)
	isolateProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("stderr pipe: %w", err)
	}

	logging.Logger.Debug("Starting hook",
		"hook", desc.Name,
		"source", desc.Source,
		"argv", desc.Argv,
		"timeout", timeout)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.FailedResult(desc.Name, desc.Source, fmt.Errorf("failed to start %s: %w", desc.Argv[0], err)), nil
	}

	var stdout, stderr bytes.Buffer
	drains := new(errgroup.Group)
	drains.Go(func() error { return r.drain(&stdout, stdoutPipe) })
	drains.Go(func() error { return r.drain(&stderr, stderrPipe) })

	// Wait must not run before both pipes are fully drained or tail output
	// would be lost, so exit detection gets its own goroutine.
	done := make(chan error, 1)
	go func() {
		if err := drains.Wait(); err != nil {
			logging.Logger.Debug("Hook output drain failed", "hook", desc.Name, "error", err)
		}
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-done:
	case <-timer.C:
		timedOut = true
		logging.Logger.Warn("Hook timed out, killing process group",
			"hook", desc.Name,
			"timeout", timeout)
		killProcessGroup(cmd)
		waitErr = <-done
	case <-ctx.Done():
		logging.Logger.Warn("Dispatch canceled, killing process group", "hook", desc.Name)
		killProcessGroup(cmd)
		waitErr = <-done
	}

	result := domain.ExecutionResult{
		Hook:     desc.Name,
		Source:   desc.Source,
		TimedOut: timedOut,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if waitErr != nil {
		var exitErr *osexec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			logging.Logger.Warn("Hook wait failed", "hook", desc.Name, "error", waitErr)
			result.ExitCode = -1
		}
	}

	logging.Logger.Debug("Hook finished",
		"hook", desc.Name,
		"exit_code", result.ExitCode,
		"timed_out", result.TimedOut,
		"duration", result.Duration)

	return result, nil
}

// drain copies one child stream into buf, mirroring it to stderr when the
// operator asked to watch.
func (r *Runner) drain(buf *bytes.Buffer, src io.Reader) error {
	var dst io.Writer = buf
	if r.verbose {
		dst = io.MultiWriter(buf, os.Stderr)
	}
	_, err := io.Copy(dst, src)
	return err
}
