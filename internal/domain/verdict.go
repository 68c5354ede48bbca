package domain

import "time"

// Host-visible process exit codes. 2 is the reserved blocking sentinel,
// both for gancho itself and for the hooks it runs; every other non-zero
// code is a tool failure the host treats as allow.
const (
	ExitCodeAllow = 0
	ExitCodeFatal = 1
	ExitCodeBlock = 2
)

// Execution ceilings. A hook that needs more than the hard timeout is not a
// hook, it is a job.
const (
	DefaultHookTimeout  = 5 * time.Minute
	DefaultStdinTimeout = 5 * time.Second
)

// DefaultBlockReason is used when a blocking hook supplies no reason text.
const DefaultBlockReason = "hook blocked execution"

// VerdictKind classifies the outcome of evaluating one hook run.
type VerdictKind int

const (
	// VerdictAllow lets the host proceed.
	VerdictAllow VerdictKind = iota
	// VerdictBlock stops the host action; Reason says why.
	VerdictBlock
	// VerdictError marks a hook that failed to run cleanly. Fail-open: it
	// never blocks on its own.
	VerdictError
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictAllow:
		return "allow"
	case VerdictBlock:
		return "block"
	case VerdictError:
		return "error"
	}
	return "unknown"
}

// Verdict is the decision derived from one hook's execution. The zero value
// is an allow with no attribution.
type Verdict struct {
	Kind   VerdictKind
	Reason string // blocking reason or error cause
	Hook   string // hook that produced it

	// SuppressOutput mirrors the hook's request not to forward its stdout
	// to the operator. It never affects the decision.
	SuppressOutput bool
}
