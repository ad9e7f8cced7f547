package core

import (
	"context"
)

// Provider defines the interface for a source of probe targets
type Provider interface {
	Name() string
	// Init loads any necessary resources (e.g. keyword lists)
	Init(config *Config) error
	// Generate emits candidate URLs for a host into a channel
	Generate(ctx context.Context, host string, output chan<- string)
	// Check validates a specific target. A nil result means no match.
	Check(ctx context.Context, target string) (*Result, error)
}
