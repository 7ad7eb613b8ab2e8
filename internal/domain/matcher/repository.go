package matcher

import "context"

// Repository is the port for obtaining the current matcher configuration.
// Implementations read their source on every call; nothing is cached.
type Repository interface {
	// Load reads and parses the configuration.
	Load(ctx context.Context) (*Config, error)

	// Source describes where the configuration comes from, for diagnostics.
	Source() string
}
