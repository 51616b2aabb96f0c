package provider

import (
	"fmt"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"
)

// Factory builds a provider bound to an API key.
type Factory func(apiKey string) ports.ContentProvider

// Registry maps stored provider identifiers to factories. Adding a provider
// is a registration, not a branch. Registration happens at wiring time;
// lookups afterwards are read-only.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(domain.ProviderOpenAI, func(apiKey string) ports.ContentProvider {
		return NewOpenAIProvider(apiKey, OpenAIOptions{})
	})
	r.Register(domain.ProviderDeepSeek, func(apiKey string) ports.ContentProvider {
		return NewDeepSeekProvider(apiKey, DeepSeekOptions{})
	})
	return r
}

// Register adds or replaces a factory for a provider identifier.
func (r *Registry) Register(providerID string, factory Factory) {
	r.factories[providerID] = factory
}

// Resolve returns a provider instance for the identifier, or an error for an
// unrecognized identifier. No network call happens here.
func (r *Registry) Resolve(providerID, apiKey string) (ports.ContentProvider, error) {
	factory, ok := r.factories[providerID]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", providerID)
	}
	return factory(apiKey), nil
}

// Supported reports whether the identifier maps to a registered provider.
func (r *Registry) Supported(providerID string) bool {
	_, ok := r.factories[providerID]
	return ok
}

var _ ports.ProviderRegistry = (*Registry)(nil)
