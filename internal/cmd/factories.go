package cmd

import (
	"gancho/internal/adapters/registry"
	"gancho/internal/config"
	"gancho/internal/ports"
)

// Container holds all dependencies for the application
type Container struct {
	Loader   ports.TableLoader
	Resolver ports.HookResolver
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer() (*Container, error) {
	return &Container{
		Loader:   config.NewFileLoader(),
		Resolver: registry.New(),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	// Nothing stateful yet; kept so main can defer a single cleanup call.
	return nil
}
