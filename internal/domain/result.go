package domain

import "time"

// ExecutionResult captures everything one hook run produced.
type ExecutionResult struct {
	Hook     string
	Source   Source
	ExitCode int
	TimedOut bool // hit the hard timeout and was killed
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// FailedResult builds the synthetic result used when a hook could not be
// launched at all (unresolvable command, spawn failure). Exit 127 follows
// the shell's command-not-found convention, so the interpreter sees it as a
// plain execution error.
func FailedResult(hook string, source Source, err error) ExecutionResult {
	return ExecutionResult{
		Hook:     hook,
		Source:   source,
		ExitCode: 127,
		Stderr:   []byte(err.Error()),
	}
}
