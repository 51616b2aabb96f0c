package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/go-resty/resty/v2"
)

const (
	deepSeekDefaultBaseURL = "https://api.deepseek.com"
	deepSeekDefaultModel   = "deepseek-chat"
)

// DeepSeekProvider implements text generation and regeneration against the
// DeepSeek chat completions API. Image input is not supported by the model;
// GenerateFromImage always returns a FEATURE_NOT_SUPPORTED result.
type DeepSeekProvider struct {
	model  string
	client *resty.Client
}

// DeepSeekOptions tunes provider construction.
type DeepSeekOptions struct {
	BaseURL string
	Model   string
}

// NewDeepSeekProvider creates a provider bound to an API key.
func NewDeepSeekProvider(apiKey string, options DeepSeekOptions) *DeepSeekProvider {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = deepSeekDefaultBaseURL
	}
	model := options.Model
	if model == "" {
		model = deepSeekDefaultModel
	}
	return &DeepSeekProvider{
		model: model,
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

func (p *DeepSeekProvider) Name() string {
	return domain.ProviderDeepSeek
}

// GenerateProductContent writes fresh copy for a product.
func (p *DeepSeekProvider) GenerateProductContent(ctx context.Context, product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	return p.complete(ctx, buildGeneratePrompt(product, store, customPrompt, opts))
}

// RegenerateContent rewrites previous content using the user's feedback.
func (p *DeepSeekProvider) RegenerateContent(ctx context.Context, previous domain.ProductContent, feedback string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	return p.complete(ctx, buildRegeneratePrompt(previous, feedback, opts))
}

// GenerateFromImage declines: the negative result is a normal outcome, not
// an error.
func (p *DeepSeekProvider) GenerateFromImage(ctx context.Context, product domain.ProductData, imageURL string, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	return domain.FailureResult(domain.ErrCodeFeatureNotSupported, "DeepSeek does not support image input")
}

func (p *DeepSeekProvider) complete(ctx context.Context, prompt string) *domain.ContentGenerationResult {
	reqBody := chatCompletionRequest{
		Model:       p.model,
		Messages:    []chatMessage{userTextMessage(prompt)},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
	}

	var completion chatCompletionResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&completion).
		SetError(&completion).
		Post("/chat/completions")
	if err != nil {
		return domain.FailureResult(domain.ErrCodeDeepSeekError, fmt.Sprintf("request failed: %v", err))
	}

	if resp.StatusCode() != http.StatusOK {
		message := strings.TrimSpace(resp.String())
		if completion.Error != nil && completion.Error.Message != "" {
			message = completion.Error.Message
		}
		return domain.FailureResult(mapDeepSeekStatus(resp.StatusCode()), message)
	}

	if len(completion.Choices) == 0 {
		return domain.FailureResult(domain.ErrCodeDeepSeekError, "no choices in response")
	}

	content := ParseProductContent(completion.Choices[0].Message.Content)

	var usage *domain.TokenUsage
	if completion.Usage != nil {
		usage = &domain.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}

	return domain.SuccessResult(&content, usage)
}

func mapDeepSeekStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrCodeInvalidAPIKey
	case http.StatusTooManyRequests:
		return domain.ErrCodeRateLimitExceeded
	default:
		return domain.ErrCodeDeepSeekError
	}
}

var _ ports.ImageContentProvider = (*DeepSeekProvider)(nil)
