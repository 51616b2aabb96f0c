package application

import (
	"context"
	"fmt"
	"strconv"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// Settings are the per-shop generation preferences stored alongside the
// credential record.
type Settings struct {
	// CustomPrompt is merged into every generation prompt when the request
	// carries no instructions of its own.
	CustomPrompt string `json:"customPrompt"`
	// DefaultLength is applied when a request omits the length. Zero means
	// no default is configured.
	DefaultLength int `json:"defaultLength"`
}

// SettingsService reads and writes the per-shop generation settings.
type SettingsService struct {
	store  ports.MetafieldStore
	logger zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store ports.MetafieldStore, logger zerolog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// Get returns the stored settings. Never-set fields come back as zero values.
func (s *SettingsService) Get(ctx context.Context, scope domain.ShopScope) (*Settings, error) {
	settings := &Settings{}

	prompt, ok, err := s.store.Get(ctx, scope, ports.MetafieldNamespace, ports.MetafieldKeyCustomPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom prompt: %w", err)
	}
	if ok {
		settings.CustomPrompt = prompt
	}

	raw, ok, err := s.store.Get(ctx, scope, ports.MetafieldNamespace, ports.MetafieldKeyDefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to read default length: %w", err)
	}
	if ok && raw != "" {
		length, err := strconv.Atoi(raw)
		if err != nil {
			s.logger.Warn().Str("shop", scope.Domain).Str("value", raw).Msg("Stored default length is not an integer")
		} else {
			settings.DefaultLength = length
		}
	}

	return settings, nil
}

// Save validates and writes the settings. A zero DefaultLength clears the
// configured default.
func (s *SettingsService) Save(ctx context.Context, scope domain.ShopScope, settings Settings) error {
	if settings.DefaultLength != 0 {
		opts := domain.GenerationOptions{Length: settings.DefaultLength}
		if err := opts.Validate(); err != nil {
			return fmt.Errorf("invalid default length: %w", err)
		}
	}

	if err := s.store.EnsureDefinitions(ctx, scope); err != nil {
		s.logger.Warn().Err(err).Str("shop", scope.Domain).Msg("Failed to ensure metafield definitions")
	}

	fields := []ports.MetafieldField{
		{Key: ports.MetafieldKeyCustomPrompt, Value: settings.CustomPrompt, Type: ports.MetafieldTypeMultiLineText},
		{Key: ports.MetafieldKeyDefaultLength, Value: strconv.Itoa(settings.DefaultLength), Type: ports.MetafieldTypeInteger},
	}
	if err := s.store.SetMany(ctx, scope, ports.MetafieldNamespace, fields); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Info().Str("shop", scope.Domain).Msg("Settings saved")
	return nil
}
