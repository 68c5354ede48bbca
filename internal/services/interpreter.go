package services

import (
	"fmt"
	"strings"
	"time"

	"gancho/internal/domain"
	"gancho/internal/logging"
)

// Interpreter turns one hook execution into a verdict. Exit code 2 is the
// reserved blocking sentinel; a structured control response on stdout
// overrides the exit code either way, so a hook may exit non-zero for its
// own logging and still approve explicitly.
type Interpreter struct{}

// NewInterpreter creates an Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Interpret derives the verdict for a finished hook run.
func (i *Interpreter) Interpret(result domain.ExecutionResult) domain.Verdict {
	verdict := i.evaluate(result)
	logging.Logger.Debug("Hook verdict",
		"hook", result.Hook,
		"verdict", verdict.Kind.String(),
		"exit_code", result.ExitCode,
		"reason", verdict.Reason)
	return verdict
}

func (i *Interpreter) evaluate(result domain.ExecutionResult) domain.Verdict {
	// A killed hook never finished deciding; whatever it printed before the
	// kill does not count as a decision.
	if result.TimedOut {
		return domain.Verdict{
			Kind:   domain.VerdictError,
			Hook:   result.Hook,
			Reason: fmt.Sprintf("timed out after %s", result.Duration.Round(time.Millisecond)),
		}
	}

	if resp, ok := domain.ParseControlResponse(result.Stdout); ok {
		verdict := domain.Verdict{
			Kind:           domain.VerdictAllow,
			Hook:           result.Hook,
			SuppressOutput: resp.SuppressOutput,
		}
		if resp.Blocks() {
			verdict.Kind = domain.VerdictBlock
			verdict.Reason = resp.BlockReason()
		}
		return verdict
	}

	switch result.ExitCode {
	case domain.ExitCodeAllow:
		return domain.Verdict{Kind: domain.VerdictAllow, Hook: result.Hook}
	case domain.ExitCodeBlock:
		// stderr is the hook's blocking message, verbatim
		return domain.Verdict{
			Kind:   domain.VerdictBlock,
			Hook:   result.Hook,
			Reason: strings.TrimSpace(string(result.Stderr)),
		}
	default:
		reason := strings.TrimSpace(string(result.Stderr))
		if reason == "" {
			reason = fmt.Sprintf("exit status %d", result.ExitCode)
		}
		return domain.Verdict{Kind: domain.VerdictError, Hook: result.Hook, Reason: reason}
	}
}
