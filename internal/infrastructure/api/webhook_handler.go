package api

import (
	"io"
	"net/http"

	"copyforge-core-shopify-layer/internal/infrastructure/shopify"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookHandler receives Shopify webhook deliveries. Every request is
// verified against the app's webhook secret before it is acted on.
type WebhookHandler struct {
	verifier *shopify.WebhookVerifier
	logs     ports.GenerationLogRepository
	logger   zerolog.Logger
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(verifier *shopify.WebhookVerifier, logs ports.GenerationLogRepository, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, logs: logs, logger: logger}
}

// AppUninstalled handles POST /webhooks/app-uninstalled and clears the
// shop's generation history. Shopify retries on non-2xx, so cleanup
// failures are logged and acknowledged rather than retried forever.
func (h *WebhookHandler) AppUninstalled(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := r.Header.Get("X-Shopify-Hmac-Sha256")
	if err := h.verifier.Verify(body, signature); err != nil {
		h.logger.Warn().Err(err).Str("topic", "app/uninstalled").Msg("Webhook signature verification failed")
		respondError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	shop := r.Header.Get("X-Shopify-Shop-Domain")
	if shop == "" {
		respondError(w, http.StatusBadRequest, "missing shop domain header")
		return
	}

	if err := h.logs.DeleteByShop(r.Context(), shop); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete generation logs on uninstall")
	} else {
		h.logger.Info().Str("shop", shop).Msg("Cleared generation history after uninstall")
	}

	w.WriteHeader(http.StatusOK)
}
