package application

import (
	"context"
	"testing"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/infrastructure/encryption"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPIKeyService(t *testing.T, store ports.MetafieldStore) *APIKeyService {
	t.Helper()
	enc, err := encryption.NewService("test-secret")
	require.NoError(t, err)
	registry := &fakeRegistry{supported: map[string]bool{
		domain.ProviderOpenAI:   true,
		domain.ProviderDeepSeek: true,
	}}
	return NewAPIKeyService(store, enc, registry, zerolog.Nop())
}

func testScope() domain.ShopScope {
	return domain.ShopScope{Domain: "example.myshopify.com", AccessToken: "shpat_test"}
}

func TestAPIKeyService_SaveAndGetRoundTrip(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)
	ctx := context.Background()

	err := svc.Save(ctx, testScope(), domain.ProviderOpenAI, "sk-live-123")
	require.NoError(t, err)

	record, err := svc.Get(ctx, testScope(), "")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.ProviderOpenAI, record.Provider)
	assert.Equal(t, "sk-live-123", record.Secret)
}

func TestAPIKeyService_SaveWritesOneBatch(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)

	err := svc.Save(context.Background(), testScope(), domain.ProviderDeepSeek, "sk-ds-1")
	require.NoError(t, err)

	// Ciphertext and provider id must land in a single mutation
	require.Len(t, store.setManyBatches, 1)
	batch := store.setManyBatches[0]
	require.Len(t, batch, 2)
	keys := []string{batch[0].Key, batch[1].Key}
	assert.Contains(t, keys, ports.MetafieldKeyEncryptedKey)
	assert.Contains(t, keys, ports.MetafieldKeyProvider)
}

func TestAPIKeyService_SaveEncryptsAtRest(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)
	scope := testScope()

	err := svc.Save(context.Background(), scope, domain.ProviderOpenAI, "sk-plain")
	require.NoError(t, err)

	stored, ok, err := store.Get(context.Background(), scope, ports.MetafieldNamespace, ports.MetafieldKeyEncryptedKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "sk-plain", stored)
	assert.NotContains(t, stored, "sk-plain")
}

func TestAPIKeyService_SaveRejectsUnsupportedProvider(t *testing.T) {
	svc := newTestAPIKeyService(t, newFakeMetafieldStore())

	err := svc.Save(context.Background(), testScope(), "geminiApiKey", "key")
	assert.Error(t, err)
}

func TestAPIKeyService_SaveRejectsEmptySecret(t *testing.T) {
	svc := newTestAPIKeyService(t, newFakeMetafieldStore())

	err := svc.Save(context.Background(), testScope(), domain.ProviderOpenAI, "")
	assert.Error(t, err)
}

func TestAPIKeyService_SaveProceedsWhenDefinitionsFail(t *testing.T) {
	store := newFakeMetafieldStore()
	store.definitionsErr = assert.AnError
	svc := newTestAPIKeyService(t, store)

	err := svc.Save(context.Background(), testScope(), domain.ProviderOpenAI, "sk-1")
	require.NoError(t, err)

	record, err := svc.Get(context.Background(), testScope(), "")
	require.NoError(t, err)
	require.NotNil(t, record)
}

func TestAPIKeyService_GetWithoutStoredKey(t *testing.T) {
	svc := newTestAPIKeyService(t, newFakeMetafieldStore())

	record, err := svc.Get(context.Background(), testScope(), "")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAPIKeyService_GetFilterMismatch(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, testScope(), domain.ProviderOpenAI, "sk-1"))

	record, err := svc.Get(ctx, testScope(), domain.ProviderDeepSeek)
	require.NoError(t, err)
	assert.Nil(t, record)

	record, err = svc.Get(ctx, testScope(), domain.ProviderOpenAI)
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestAPIKeyService_DeleteMatchingProvider(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, testScope(), domain.ProviderOpenAI, "sk-1"))

	deleted, err := svc.Delete(ctx, testScope(), domain.ProviderOpenAI)
	require.NoError(t, err)
	assert.True(t, deleted)

	record, err := svc.Get(ctx, testScope(), "")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAPIKeyService_DeleteMismatchLeavesRecord(t *testing.T) {
	store := newFakeMetafieldStore()
	svc := newTestAPIKeyService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, testScope(), domain.ProviderOpenAI, "sk-1"))

	deleted, err := svc.Delete(ctx, testScope(), domain.ProviderDeepSeek)
	require.NoError(t, err)
	assert.False(t, deleted)

	// The mismatched request must not have touched the stored credential
	record, err := svc.Get(ctx, testScope(), "")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "sk-1", record.Secret)
}
