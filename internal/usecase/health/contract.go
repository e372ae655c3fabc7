package health

import "context"

// Pinger checks availability of a backing store (candidate database, cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks availability of a model provider.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
