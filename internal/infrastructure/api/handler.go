package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"copyforge-core-shopify-layer/internal/application"
	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// Handler exposes the content generation facade and its supporting services
// as the JSON API consumed by the embedded admin UI.
type Handler struct {
	content  *application.ContentService
	products *application.ProductService
	apiKeys  *application.APIKeyService
	settings *application.SettingsService
	logs     ports.GenerationLogRepository
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	content *application.ContentService,
	products *application.ProductService,
	apiKeys *application.APIKeyService,
	settings *application.SettingsService,
	logs ports.GenerationLogRepository,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		content:  content,
		products: products,
		apiKeys:  apiKeys,
		settings: settings,
		logs:     logs,
		logger:   logger,
	}
}

type generateContentRequest struct {
	ProductID    string      `json:"productId"`
	Length       int         `json:"length"`
	Tone         domain.Tone `json:"tone,omitempty"`
	Keywords     []string    `json:"keywords,omitempty"`
	CustomPrompt string      `json:"customPrompt,omitempty"`
}

type regenerateContentRequest struct {
	ProductID       string                 `json:"productId"`
	PreviousContent *domain.ProductContent `json:"previousContent"`
	Feedback        string                 `json:"feedback"`
	Length          int                    `json:"length"`
	Tone            domain.Tone            `json:"tone,omitempty"`
}

type generateFromImageRequest struct {
	ProductID    string      `json:"productId,omitempty"`
	ImageURL     string      `json:"imageUrl"`
	Length       int         `json:"length"`
	Tone         domain.Tone `json:"tone,omitempty"`
	CustomPrompt string      `json:"customPrompt,omitempty"`
}

// GenerateContent handles POST /api/generate-content. Generation failures
// ride the result envelope with HTTP 200; only invalid requests get a 4xx.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}
	opts := domain.GenerationOptions{Length: req.Length, Tone: req.Tone, Keywords: req.Keywords}
	if req.Length != 0 {
		if err := opts.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	product, err := h.products.GetProduct(r.Context(), scope, req.ProductID)
	if err != nil {
		respondJSON(w, http.StatusOK, domain.FailureResult(domain.ErrCodeGenerationFailed, err.Error()))
		return
	}

	// Store branding enriches the prompt but is not required for it.
	store, err := h.products.GetStoreContext(r.Context(), scope)
	if err != nil {
		h.logger.Warn().Err(err).Str("shop", scope.Domain).Msg("Failed to fetch store context")
		store = nil
	}

	result := h.content.Generate(r.Context(), scope, *product, store, req.CustomPrompt, opts)
	respondJSON(w, http.StatusOK, result)
}

// RegenerateContent handles POST /api/regenerate-content.
func (h *Handler) RegenerateContent(w http.ResponseWriter, r *http.Request) {
	var req regenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}
	opts := domain.GenerationOptions{Length: req.Length, Tone: req.Tone}
	if req.Length != 0 {
		if err := opts.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	var previous *domain.ContentGenerationResult
	if req.PreviousContent != nil {
		previous = domain.SuccessResult(req.PreviousContent, nil)
	}

	result := h.content.Regenerate(r.Context(), scope, req.ProductID, previous, req.Feedback, opts)
	respondJSON(w, http.StatusOK, result)
}

// GenerateFromImage handles POST /api/generate-from-image.
func (h *Handler) GenerateFromImage(w http.ResponseWriter, r *http.Request) {
	var req generateFromImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}
	opts := domain.GenerationOptions{Length: req.Length, Tone: req.Tone}
	if req.Length != 0 {
		if err := opts.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	var product domain.ProductData
	if req.ProductID != "" {
		fetched, err := h.products.GetProduct(r.Context(), scope, req.ProductID)
		if err != nil {
			respondJSON(w, http.StatusOK, domain.FailureResult(domain.ErrCodeImageGenFailed, err.Error()))
			return
		}
		product = *fetched
	}

	result := h.content.GenerateFromImage(r.Context(), scope, product, req.ImageURL, req.CustomPrompt, opts)
	respondJSON(w, http.StatusOK, result)
}

type applyContentRequest struct {
	ProductID string                `json:"productId"`
	Content   domain.ProductContent `json:"content"`
}

// ApplyContent handles POST /api/apply-content.
func (h *Handler) ApplyContent(w http.ResponseWriter, r *http.Request) {
	var req applyContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}
	if req.Content.Title == "" && req.Content.Description == "" {
		respondError(w, http.StatusBadRequest, "content is empty")
		return
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	if err := h.products.ApplyContent(r.Context(), scope, req.ProductID, req.Content); err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type saveAPIKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// SaveAPIKey handles PUT /api/api-key.
func (h *Handler) SaveAPIKey(w http.ResponseWriter, r *http.Request) {
	var req saveAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	if err := h.apiKeys.Save(r.Context(), scope, req.Provider, req.APIKey); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetAPIKeyStatus handles GET /api/api-key. The secret is never returned.
func (h *Handler) GetAPIKeyStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	record, err := h.apiKeys.Get(r.Context(), scope, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{"configured": record != nil}
	if record != nil {
		resp["provider"] = record.Provider
	}
	respondJSON(w, http.StatusOK, resp)
}

// DeleteAPIKey handles DELETE /api/api-key?provider=...
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	providerID := r.URL.Query().Get("provider")
	if providerID == "" {
		respondError(w, http.StatusBadRequest, "provider query parameter is required")
		return
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	deleted, err := h.apiKeys.Delete(r.Context(), scope, providerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	settings, err := h.settings.Get(r.Context(), scope)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// SaveSettings handles PUT /api/settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings application.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	if err := h.settings.Save(r.Context(), scope, settings); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListGenerationLogs handles GET /api/generation-logs.
func (h *Handler) ListGenerationLogs(w http.ResponseWriter, r *http.Request) {
	scope, ok := domain.ShopScopeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "shop scope is required")
		return
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	logs, err := h.logs.ListByShop(r.Context(), scope.Domain, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []*domain.GenerationLog{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message})
}
