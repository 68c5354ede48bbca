package domain

import (
	"encoding/json"
	"time"
)

// Source says where a hook's command came from. When several sources supply
// the same name, the strongest one wins: ad hoc beats project beats
// built-in.
type Source string

const (
	SourceAdHoc   Source = "ad hoc"
	SourceProject Source = "project"
	SourceBuiltin Source = "built-in"
)

// ExecEnv is the environment a hook process runs in. Vars are KEY=VALUE
// pairs appended to the dispatcher's own environment, so hooks inherit the
// operator's PATH and locale alongside the dispatch context.
type ExecEnv struct {
	Dir  string
	Vars []string
}

// HookDescriptor is a hook identifier resolved to something invocable.
type HookDescriptor struct {
	Name   string
	Source Source

	// Argv is the resolved command line; Argv[0] is the program.
	Argv []string

	// Definition-level extras from the routing file, all optional.
	Config   json.RawMessage // handed to the hook via GANCHO_HOOK_CONFIG
	Files    []string        // globs narrowing write events
	Timeout  time.Duration   // per-hook override, capped by the ceiling
	Disabled bool
}
