package ports

import (
	"gancho/internal/config"
	"gancho/internal/domain"
)

// HookResolver turns hook identifiers into invocable descriptors
type HookResolver interface {
	// Resolve maps a hook name to its command, consulting the routing
	// table definition (may be nil) and the project and user hook
	// directories under root. Returns domain.ErrHookNotFound when no
	// source supplies the name.
	Resolve(root, name string, def *config.HookDefinition) (*domain.HookDescriptor, error)
}
