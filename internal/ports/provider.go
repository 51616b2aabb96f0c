package ports

import (
	"context"

	"copyforge-core-shopify-layer/internal/domain"
)

// ContentProvider is the capability set every remote LLM provider implements.
// Providers return negative result envelopes instead of errors for anything
// that happens after input validation: transport failures, auth failures and
// rate limits are all mapped to error codes on the result.
type ContentProvider interface {
	// Name returns the provider identifier, e.g. domain.ProviderOpenAI.
	Name() string

	// GenerateProductContent writes fresh copy for a product.
	GenerateProductContent(ctx context.Context, product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult

	// RegenerateContent rewrites previous content taking user feedback
	// into account.
	RegenerateContent(ctx context.Context, previous domain.ProductContent, feedback string, opts domain.GenerationOptions) *domain.ContentGenerationResult
}

// ImageContentProvider is the optional image-input capability. A provider
// may implement it and still decline every call with a
// FEATURE_NOT_SUPPORTED result.
type ImageContentProvider interface {
	ContentProvider

	// GenerateFromImage writes copy for a product from a product image.
	GenerateFromImage(ctx context.Context, product domain.ProductData, imageURL string, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult
}

// ProviderRegistry resolves a stored provider identifier to a provider
// instance bound to an API key. Resolution is a pure lookup; an unknown
// identifier fails before any network call.
type ProviderRegistry interface {
	Resolve(providerID, apiKey string) (ContentProvider, error)
	Supported(providerID string) bool
}
