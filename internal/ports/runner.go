package ports

import (
	"context"

	"gancho/internal/domain"
)

// HookRunner executes one resolved hook to completion
type HookRunner interface {
	// Run starts the descriptor's command with input on stdin and drains
	// it. The returned result is always usable when err is nil, including
	// for hooks that were killed on timeout.
	Run(ctx context.Context, desc *domain.HookDescriptor, input []byte, env domain.ExecEnv) (domain.ExecutionResult, error)
}
