package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLogRepo struct {
	entries []*domain.GenerationLog
}

func (m *memoryLogRepo) Create(ctx context.Context, log *domain.GenerationLog) error {
	m.entries = append(m.entries, log)
	return nil
}

func (m *memoryLogRepo) ListByShop(ctx context.Context, shop string, limit int64) ([]*domain.GenerationLog, error) {
	return m.entries, nil
}

func (m *memoryLogRepo) DeleteByShop(ctx context.Context, shop string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Shop != shop {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestAppUninstalled_ClearsShopHistory(t *testing.T) {
	repo := &memoryLogRepo{entries: []*domain.GenerationLog{
		{ID: "1", Shop: "gone.myshopify.com"},
		{ID: "2", Shop: "stays.myshopify.com"},
	}}
	handler := NewWebhookHandler(shopify.NewWebhookVerifier("whsec"), repo, zerolog.Nop())

	payload := []byte(`{"domain":"gone.myshopify.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/app-uninstalled", bytes.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-Sha256", signPayload("whsec", payload))
	req.Header.Set("X-Shopify-Shop-Domain", "gone.myshopify.com")

	rec := httptest.NewRecorder()
	handler.AppUninstalled(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "stays.myshopify.com", repo.entries[0].Shop)
}

func TestAppUninstalled_RejectsBadSignature(t *testing.T) {
	repo := &memoryLogRepo{entries: []*domain.GenerationLog{{ID: "1", Shop: "gone.myshopify.com"}}}
	handler := NewWebhookHandler(shopify.NewWebhookVerifier("whsec"), repo, zerolog.Nop())

	payload := []byte(`{"domain":"gone.myshopify.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/app-uninstalled", bytes.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-Sha256", signPayload("wrong-secret", payload))
	req.Header.Set("X-Shopify-Shop-Domain", "gone.myshopify.com")

	rec := httptest.NewRecorder()
	handler.AppUninstalled(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, repo.entries, 1)
}

func TestAppUninstalled_RejectsMissingSignature(t *testing.T) {
	repo := &memoryLogRepo{}
	handler := NewWebhookHandler(shopify.NewWebhookVerifier("whsec"), repo, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/app-uninstalled", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler.AppUninstalled(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
