package application

import (
	"context"
	"testing"

	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(newFakeMetafieldStore(), zerolog.Nop())

	settings, err := svc.Get(context.Background(), testScope())
	require.NoError(t, err)
	assert.Empty(t, settings.CustomPrompt)
	assert.Zero(t, settings.DefaultLength)
}

func TestSettingsService_SaveAndGetRoundTrip(t *testing.T) {
	svc := NewSettingsService(newFakeMetafieldStore(), zerolog.Nop())
	ctx := context.Background()

	err := svc.Save(ctx, testScope(), Settings{CustomPrompt: "Always mention the warranty.", DefaultLength: 300})
	require.NoError(t, err)

	settings, err := svc.Get(ctx, testScope())
	require.NoError(t, err)
	assert.Equal(t, "Always mention the warranty.", settings.CustomPrompt)
	assert.Equal(t, 300, settings.DefaultLength)
}

func TestSettingsService_SaveRejectsOutOfRangeDefaultLength(t *testing.T) {
	svc := NewSettingsService(newFakeMetafieldStore(), zerolog.Nop())

	assert.Error(t, svc.Save(context.Background(), testScope(), Settings{DefaultLength: 50}))
	assert.Error(t, svc.Save(context.Background(), testScope(), Settings{DefaultLength: 600}))
}

func TestSettingsService_SaveAllowsZeroDefaultLength(t *testing.T) {
	svc := NewSettingsService(newFakeMetafieldStore(), zerolog.Nop())

	// Zero clears the configured default rather than failing validation
	err := svc.Save(context.Background(), testScope(), Settings{CustomPrompt: "prompt only"})
	require.NoError(t, err)
}

func TestSettingsService_GetToleratesCorruptLength(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := NewSettingsService(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testScope(), ports.MetafieldNamespace, ports.MetafieldField{Key: ports.MetafieldKeyDefaultLength, Value: "not-a-number"}))

	settings, err := svc.Get(ctx, testScope())
	require.NoError(t, err)
	assert.Zero(t, settings.DefaultLength)
}
