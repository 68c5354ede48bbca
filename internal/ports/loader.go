package ports

import (
	"gancho/internal/config"
)

// TableLoader loads routing tables for a project root
type TableLoader interface {
	// Load returns the strongest routing table candidate that parses, or
	// domain.ErrConfigAbsent when none does. Implementations must not cache:
	// every dispatch sees the files as they are on disk right now.
	Load(root string) (*config.RoutingTable, error)
}
