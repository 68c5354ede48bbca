package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"gancho/internal/config"
	"gancho/internal/domain"
	"gancho/internal/logging"
	"gancho/internal/ports"
)

// DispatchOptions carries the per-invocation knobs the CLI layer resolved
// from flags, environment, and settings.
type DispatchOptions struct {
	// WorkDir anchors project-root discovery when the event carries no cwd.
	WorkDir string

	// FailFast stops the run at the first blocking hook instead of letting
	// the remaining hooks report too.
	FailFast bool

	// Verbose means hook output is already echoed live by the runner, so
	// the dispatcher must not forward it a second time.
	Verbose bool

	// FileAllow and FileDeny travel to hooks via the environment contract.
	FileAllow []string
	FileDeny  []string
}

// HookExecution pairs one hook run with the verdict derived from it.
type HookExecution struct {
	Result  domain.ExecutionResult
	Verdict domain.Verdict
}

// DispatchResult is everything one dispatch produced. Verdict is the
// aggregate: the first block wins, execution errors alone stay an allow.
type DispatchResult struct {
	Event      *domain.Event
	Matched    []string
	Executions []HookExecution
	Verdict    domain.Verdict
}

// Blocked reports whether the dispatch decided to stop the host action.
func (r *DispatchResult) Blocked() bool {
	return r.Verdict.Kind == domain.VerdictBlock
}

// Dispatcher runs the whole pipeline for one event: parse, short-circuit,
// load routing, match, execute sequentially, interpret, aggregate. One
// Dispatcher handles one process lifetime; nothing is cached between calls.
type Dispatcher struct {
	loader      ports.TableLoader
	resolver    ports.HookResolver
	runner      ports.HookRunner
	matcher     *Matcher
	interpreter *Interpreter
	opts        DispatchOptions
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(loader ports.TableLoader, resolver ports.HookResolver, runner ports.HookRunner, opts DispatchOptions) *Dispatcher {
	return &Dispatcher{
		loader:      loader,
		resolver:    resolver,
		runner:      runner,
		matcher:     NewMatcher(),
		interpreter: NewInterpreter(),
		opts:        opts,
	}
}

// Dispatch processes one raw event document. The returned error is fatal
// only for unparsable events; every downstream failure degrades to an allow
// so a broken hook setup can never wedge the host.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (*DispatchResult, error) {
	event, err := domain.ParseEvent(raw)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{Event: event}

	logging.Logger.Info("Dispatching event",
		"event", event.Name,
		"tool", event.ToolName,
		"session_id", event.SessionID)

	if event.ShortCircuits() {
		logging.Logger.Info("Stop hooks already running, allowing to avoid re-entry", "event", event.Name)
		return result, nil
	}

	root := config.FindProjectRoot(d.workdir(event))

	table, err := d.loader.Load(root)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigAbsent) {
			logging.Logger.Warn("Routing configuration unavailable, allowing", "error", err)
		} else {
			logging.Logger.Debug("No routing configuration, allowing", "root", root)
		}
		return result, nil
	}

	matched := d.matcher.Match(event, table)
	matched = d.matcher.FilterHooks(event, matched, table, root)
	result.Matched = matched

	if len(matched) == 0 {
		logging.Logger.Debug("No hooks matched", "event", event.Name, "table", table.Path)
		return result, nil
	}

	dispatchID := uuid.New().String()
	logging.Logger.Info("Running hooks",
		"event", event.Name,
		"hooks", matched,
		"dispatch_id", dispatchID)

	for _, name := range matched {
		execution := d.runHook(ctx, event, table, root, name, dispatchID)
		result.Executions = append(result.Executions, execution)
		d.forwardDiagnostics(execution)

		if execution.Verdict.Kind != domain.VerdictBlock {
			continue
		}
		if !result.Blocked() {
			// First blocking hook owns the overall reason
			result.Verdict = execution.Verdict
		}
		if d.opts.FailFast {
			logging.Logger.Info("Fail-fast enabled, stopping after blocking hook", "hook", name)
			break
		}
	}

	return result, nil
}

// runHook resolves and executes a single hook. Failures become synthetic
// exit-127 results so the interpreter treats them as execution errors, not
// blocks.
func (d *Dispatcher) runHook(ctx context.Context, event *domain.Event, table *config.RoutingTable, root, name, dispatchID string) HookExecution {
	var result domain.ExecutionResult

	desc, err := d.resolver.Resolve(root, name, table.Definition(name))
	if err != nil {
		logging.Logger.Warn("Hook resolution failed", "hook", name, "error", err)
		result = domain.FailedResult(name, "", err)
	} else {
		result, err = d.runner.Run(ctx, desc, event.Raw(), d.execEnv(event, desc, root, dispatchID))
		if err != nil {
			logging.Logger.Error("Hook execution failed", "hook", name, "error", err)
			result = domain.FailedResult(name, desc.Source, err)
		}
	}

	return HookExecution{Result: result, Verdict: d.interpreter.Interpret(result)}
}

// execEnv builds the environment contract one hook run observes.
func (d *Dispatcher) execEnv(event *domain.Event, desc *domain.HookDescriptor, root, dispatchID string) domain.ExecEnv {
	dir := event.Cwd
	if dir == "" {
		dir = root
	}

	hookConfig := string(desc.Config)
	if hookConfig == "" {
		hookConfig = "{}"
	}

	vars := []string{
		"GANCHO_EVENT=" + string(event.Name),
		"GANCHO_HOOK=" + desc.Name,
		"GANCHO_HOOK_SOURCE=" + string(desc.Source),
		"GANCHO_HOOK_CONFIG=" + hookConfig,
		"GANCHO_PROJECT_DIR=" + root,
		"GANCHO_SESSION_ID=" + event.SessionID,
		"GANCHO_DISPATCH_ID=" + dispatchID,
	}
	if len(d.opts.FileAllow) > 0 {
		vars = append(vars, "GANCHO_FILE_ALLOWLIST="+strings.Join(d.opts.FileAllow, ":"))
	}
	if len(d.opts.FileDeny) > 0 {
		vars = append(vars, "GANCHO_FILE_DENYLIST="+strings.Join(d.opts.FileDeny, ":"))
	}
	return domain.ExecEnv{Dir: dir, Vars: vars}
}

// forwardDiagnostics relays a hook's free-text stdout to stderr. stdout of
// this process belongs to the host protocol, so diagnostics must never land
// there. In verbose mode the runner already echoed everything live.
func (d *Dispatcher) forwardDiagnostics(execution HookExecution) {
	if d.opts.Verbose || execution.Verdict.SuppressOutput {
		return
	}
	if diag := domain.DiagnosticText(execution.Result.Stdout); diag != "" {
		fmt.Fprintln(os.Stderr, diag)
	}
}

// workdir picks the directory project-root discovery starts from.
func (d *Dispatcher) workdir(event *domain.Event) string {
	if event.Cwd != "" {
		return event.Cwd
	}
	return d.opts.WorkDir
}
