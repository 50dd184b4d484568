package driving

import "context"

// ProviderStatus is one provider's connectivity report.
type ProviderStatus struct {
	// Name identifies the provider role, e.g. "embedding" or "llm".
	Name string

	// Model is the configured model for this provider.
	Model string

	// Err is nil when the provider answered the reachability check.
	Err error
}

// StatusService reports whether the configured AI providers are
// reachable with the current configuration.
type StatusService interface {
	// Check probes every provider and returns one report per provider.
	// Unreachable providers are reported, not returned as an error.
	Check(ctx context.Context) []ProviderStatus
}
