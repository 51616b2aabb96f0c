package application

import (
	"context"
	"fmt"
	"time"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/infrastructure/metrics"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContentService orchestrates credential lookup, provider selection, prompt
// construction and result parsing. It is the last line of defense for the
// generation pipeline: every call returns a well-formed result envelope and
// never lets an error or panic escape to the caller.
type ContentService struct {
	apiKeys  *APIKeyService
	settings *SettingsService
	registry ports.ProviderRegistry
	logs     ports.GenerationLogRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewContentService creates the generation facade. logs and m may be nil;
// both are best-effort observers.
func NewContentService(
	apiKeys *APIKeyService,
	settings *SettingsService,
	registry ports.ProviderRegistry,
	logs ports.GenerationLogRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ContentService {
	return &ContentService{
		apiKeys:  apiKeys,
		settings: settings,
		registry: registry,
		logs:     logs,
		metrics:  m,
		logger:   logger,
	}
}

// Generate writes fresh content for a product.
func (s *ContentService) Generate(ctx context.Context, scope domain.ShopScope, product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) (result *domain.ContentGenerationResult) {
	started := time.Now()
	providerID := ""
	defer func() {
		if r := recover(); r != nil {
			result = domain.FailureResult(domain.ErrCodeGenerationFailed, fmt.Sprintf("unexpected failure: %v", r))
		}
		s.record(ctx, scope, product.ID, providerID, domain.GenerationKindGenerate, result, started)
	}()

	prov, custom, prep := s.prepare(ctx, scope, &customPrompt, &opts, domain.ErrCodeGenerationFailed)
	if prep != nil {
		return prep
	}
	providerID = prov.Name()

	return prov.GenerateProductContent(ctx, product, store, custom, opts)
}

// Regenerate rewrites a previous result according to user feedback. The
// previous result must be a successful one with content present.
func (s *ContentService) Regenerate(ctx context.Context, scope domain.ShopScope, productID string, previous *domain.ContentGenerationResult, feedback string, opts domain.GenerationOptions) (result *domain.ContentGenerationResult) {
	started := time.Now()
	providerID := ""
	defer func() {
		if r := recover(); r != nil {
			result = domain.FailureResult(domain.ErrCodeRegenerationFailed, fmt.Sprintf("unexpected failure: %v", r))
		}
		s.record(ctx, scope, productID, providerID, domain.GenerationKindRegenerate, result, started)
	}()

	if previous == nil || !previous.Success || previous.Content == nil {
		return domain.FailureResult(domain.ErrCodeNoPreviousContent, "no previous content to regenerate")
	}

	customPrompt := ""
	prov, _, prep := s.prepare(ctx, scope, &customPrompt, &opts, domain.ErrCodeRegenerationFailed)
	if prep != nil {
		return prep
	}
	providerID = prov.Name()

	return prov.RegenerateContent(ctx, *previous.Content, feedback, opts)
}

// GenerateFromImage writes content from a product image, when the resolved
// provider supports image input at all.
func (s *ContentService) GenerateFromImage(ctx context.Context, scope domain.ShopScope, product domain.ProductData, imageURL string, customPrompt string, opts domain.GenerationOptions) (result *domain.ContentGenerationResult) {
	started := time.Now()
	providerID := ""
	defer func() {
		if r := recover(); r != nil {
			result = domain.FailureResult(domain.ErrCodeImageGenFailed, fmt.Sprintf("unexpected failure: %v", r))
		}
		s.record(ctx, scope, product.ID, providerID, domain.GenerationKindImage, result, started)
	}()

	prov, custom, prep := s.prepare(ctx, scope, &customPrompt, &opts, domain.ErrCodeImageGenFailed)
	if prep != nil {
		return prep
	}
	providerID = prov.Name()

	imageProv, ok := prov.(ports.ImageContentProvider)
	if !ok {
		return domain.FailureResult(domain.ErrCodeUnsupportedFeature, fmt.Sprintf("provider %s does not support image generation", prov.Name()))
	}

	return imageProv.GenerateFromImage(ctx, product, imageURL, custom, opts)
}

// prepare runs the shared early-exit chain: credential lookup, provider
// resolution, stored-settings merge and option validation. A non-nil third
// return is the negative envelope to hand straight back to the caller.
func (s *ContentService) prepare(ctx context.Context, scope domain.ShopScope, customPrompt *string, opts *domain.GenerationOptions, failCode string) (ports.ContentProvider, string, *domain.ContentGenerationResult) {
	record, err := s.apiKeys.Get(ctx, scope, "")
	if err != nil {
		return nil, "", domain.FailureResult(failCode, err.Error())
	}
	if record == nil {
		return nil, "", domain.FailureResult(domain.ErrCodeNoAPIKey, "no API key configured")
	}

	prov, err := s.registry.Resolve(record.Provider, record.Secret)
	if err != nil {
		return nil, "", domain.FailureResult(failCode, err.Error())
	}

	if s.settings != nil && (*customPrompt == "" || opts.Length == 0) {
		stored, err := s.settings.Get(ctx, scope)
		if err != nil {
			// Settings are a convenience; generation proceeds without them.
			s.logger.Warn().Err(err).Str("shop", scope.Domain).Msg("Failed to load stored settings")
		} else {
			if *customPrompt == "" {
				*customPrompt = stored.CustomPrompt
			}
			if opts.Length == 0 && stored.DefaultLength != 0 {
				opts.Length = stored.DefaultLength
			}
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, "", domain.FailureResult(failCode, err.Error())
	}

	return prov, *customPrompt, nil
}

// record writes the best-effort generation log entry and metrics.
func (s *ContentService) record(ctx context.Context, scope domain.ShopScope, productID, providerID string, kind domain.GenerationKind, result *domain.ContentGenerationResult, started time.Time) {
	elapsed := time.Since(started)

	outcome := "success"
	if result != nil && !result.Success {
		outcome = result.ErrorCode
	}
	s.metrics.ObserveGeneration(providerID, string(kind), outcome, elapsed)

	if s.logs == nil || result == nil {
		return
	}

	entry := &domain.GenerationLog{
		ID:         uuid.NewString(),
		Shop:       scope.Domain,
		ProductID:  productID,
		Provider:   providerID,
		Kind:       kind,
		Success:    result.Success,
		ErrorCode:  result.ErrorCode,
		Usage:      result.Usage,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("shop", scope.Domain).Msg("Failed to write generation log")
	}
}
