package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o"
)

// Generation parameters sent on every chat completion call.
const (
	chatTemperature = 0.7
	chatMaxTokens   = 1500
	chatTopP        = 1.0
)

// OpenAIProvider implements the full capability set, including image input,
// against the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// OpenAIOptions tunes provider construction. The zero value uses the public
// API endpoint and the default model.
type OpenAIOptions struct {
	BaseURL string
	Model   string
}

// NewOpenAIProvider creates a provider bound to an API key.
func NewOpenAIProvider(apiKey string, options OpenAIOptions) *OpenAIProvider {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	model := options.Model
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OpenAIProvider) Name() string {
	return domain.ProviderOpenAI
}

// GenerateProductContent writes fresh copy for a product.
func (p *OpenAIProvider) GenerateProductContent(ctx context.Context, product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	prompt := buildGeneratePrompt(product, store, customPrompt, opts)
	return p.complete(ctx, []chatMessage{userTextMessage(prompt)}, false)
}

// RegenerateContent rewrites previous content using the user's feedback.
func (p *OpenAIProvider) RegenerateContent(ctx context.Context, previous domain.ProductContent, feedback string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	prompt := buildRegeneratePrompt(previous, feedback, opts)
	return p.complete(ctx, []chatMessage{userTextMessage(prompt)}, false)
}

// GenerateFromImage writes copy from a product image via the vision message
// format.
func (p *OpenAIProvider) GenerateFromImage(ctx context.Context, product domain.ProductData, imageURL string, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	prompt := buildImagePrompt(product, customPrompt, opts)
	msg := chatMessage{
		Role: "user",
		Content: []chatContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL}},
		},
	}
	return p.complete(ctx, []chatMessage{msg}, true)
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

func userTextMessage(text string) chatMessage {
	return chatMessage{Role: "user", Content: text}
}

type chatCompletionRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// complete runs one chat completion and maps the reply, or the transport
// failure, to a result envelope. No retries: a single failure surfaces
// directly to the caller.
func (p *OpenAIProvider) complete(ctx context.Context, messages []chatMessage, imageInput bool) *domain.ContentGenerationResult {
	reqBody := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return domain.FailureResult(domain.ErrCodeOpenAIError, fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return domain.FailureResult(domain.ErrCodeOpenAIError, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.FailureResult(domain.ErrCodeOpenAIError, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FailureResult(domain.ErrCodeOpenAIError, fmt.Sprintf("failed to read response: %v", err))
	}

	var completion chatCompletionResponse
	// Error bodies are also JSON; a decode failure only matters on success
	// statuses, handled below.
	decodeErr := json.Unmarshal(body, &completion)

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(body))
		if completion.Error != nil && completion.Error.Message != "" {
			message = completion.Error.Message
		}
		return domain.FailureResult(mapOpenAIStatus(resp.StatusCode, message, imageInput), message)
	}

	if decodeErr != nil {
		return domain.FailureResult(domain.ErrCodeOpenAIError, fmt.Sprintf("failed to decode response: %v", decodeErr))
	}
	if len(completion.Choices) == 0 {
		return domain.FailureResult(domain.ErrCodeOpenAIError, "no choices in response")
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

func mapOpenAIStatus(status int, message string, imageInput bool) string {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrCodeInvalidAPIKey
	case http.StatusTooManyRequests:
		return domain.ErrCodeRateLimitExceeded
	}
	if imageInput && status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "image") {
		return domain.ErrCodeInvalidImage
	}
	return domain.ErrCodeOpenAIError
}

var _ ports.ImageContentProvider = (*OpenAIProvider)(nil)
