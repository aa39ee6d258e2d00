package server

import "context"

// Server defines the lifecycle contract for servers managed by this package.
type Server interface {
	// Run serves requests until ctx is done, then shuts down gracefully.
	Run(ctx context.Context) error

	// Addr returns the bound address once Run has started listening.
	Addr() string
}
