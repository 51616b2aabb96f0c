package application

import (
	"context"
	"fmt"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// APIKeyService manages the stored provider credential: which LLM provider a
// shop uses and its encrypted API key. The two fields form one logical
// record in the shop's metafield namespace.
type APIKeyService struct {
	store         ports.MetafieldStore
	encryptionSvc ports.EncryptionService
	registry      ports.ProviderRegistry
	logger        zerolog.Logger
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(
	store ports.MetafieldStore,
	encryptionSvc ports.EncryptionService,
	registry ports.ProviderRegistry,
	logger zerolog.Logger,
) *APIKeyService {
	return &APIKeyService{
		store:         store,
		encryptionSvc: encryptionSvc,
		registry:      registry,
		logger:        logger,
	}
}

// Save encrypts the secret and writes ciphertext and provider identifier
// together in a single metafield mutation, so the record cannot be
// half-written.
func (s *APIKeyService) Save(ctx context.Context, scope domain.ShopScope, providerID, secret string) error {
	if !s.registry.Supported(providerID) {
		return fmt.Errorf("unsupported provider %q", providerID)
	}
	if secret == "" {
		return fmt.Errorf("api key is required")
	}

	// Definition creation failing does not block the write; values can be
	// stored without definitions.
	if err := s.store.EnsureDefinitions(ctx, scope); err != nil {
		s.logger.Warn().Err(err).Str("shop", scope.Domain).Msg("Failed to ensure metafield definitions")
	}

	ciphertext, err := s.encryptionSvc.Encrypt(secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt api key: %w", err)
	}

	fields := []ports.MetafieldField{
		{Key: ports.MetafieldKeyEncryptedKey, Value: ciphertext, Type: ports.MetafieldTypeSingleLineText},
		{Key: ports.MetafieldKeyProvider, Value: providerID, Type: ports.MetafieldTypeSingleLineText},
	}
	if err := s.store.SetMany(ctx, scope, ports.MetafieldNamespace, fields); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}

	s.logger.Info().Str("shop", scope.Domain).Str("provider", providerID).Msg("API key saved")
	return nil
}

// Get returns the stored credential, decrypted, or nil when no credential is
// stored. When providerFilter is non-empty and the stored provider differs,
// Get returns nil even though a credential exists: the shop has the wrong
// provider configured for the request, which is a signal, not an error.
func (s *APIKeyService) Get(ctx context.Context, scope domain.ShopScope, providerFilter string) (*domain.APIKeyRecord, error) {
	ciphertext, ok, err := s.store.Get(ctx, scope, ports.MetafieldNamespace, ports.MetafieldKeyEncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored api key: %w", err)
	}
	if !ok || ciphertext == "" {
		return nil, nil
	}

	providerID, ok, err := s.store.Get(ctx, scope, ports.MetafieldNamespace, ports.MetafieldKeyProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored provider: %w", err)
	}
	if !ok || providerID == "" {
		// Ciphertext without a provider identifier is unusable.
		s.logger.Warn().Str("shop", scope.Domain).Msg("Stored credential has no provider identifier")
		return nil, nil
	}

	if providerFilter != "" && providerFilter != providerID {
		return nil, nil
	}

	secret, err := s.encryptionSvc.Decrypt(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt stored api key: %w", err)
	}

	return &domain.APIKeyRecord{Provider: providerID, Secret: secret}, nil
}

// Delete clears the credential only when the stored provider matches the
// requested one. A mismatch returns false without mutating anything, so one
// provider's credential cannot be removed by a request aimed at another.
func (s *APIKeyService) Delete(ctx context.Context, scope domain.ShopScope, providerID string) (bool, error) {
	stored, ok, err := s.store.Get(ctx, scope, ports.MetafieldNamespace, ports.MetafieldKeyProvider)
	if err != nil {
		return false, fmt.Errorf("failed to read stored provider: %w", err)
	}
	if !ok || stored != providerID {
		return false, nil
	}

	keys := []string{ports.MetafieldKeyEncryptedKey, ports.MetafieldKeyProvider}
	if err := s.store.Delete(ctx, scope, ports.MetafieldNamespace, keys); err != nil {
		return false, fmt.Errorf("failed to delete api key: %w", err)
	}

	s.logger.Info().Str("shop", scope.Domain).Str("provider", providerID).Msg("API key deleted")
	return true, nil
}
