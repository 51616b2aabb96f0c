package domain

// Error codes carried by ContentGenerationResult. Components convert their
// own failures to one of these before returning; exceptions never cross a
// component boundary.
const (
	ErrCodeNoAPIKey            = "NO_API_KEY"
	ErrCodeInvalidAPIKey       = "INVALID_API_KEY"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidImage        = "INVALID_IMAGE"
	ErrCodeUnsupportedFeature  = "UNSUPPORTED_FEATURE"
	ErrCodeFeatureNotSupported = "FEATURE_NOT_SUPPORTED"
	ErrCodeNoPreviousContent   = "NO_PREVIOUS_CONTENT"
	ErrCodeGenerationFailed    = "GENERATION_FAILED"
	ErrCodeRegenerationFailed  = "REGENERATION_FAILED"
	ErrCodeImageGenFailed      = "IMAGE_GENERATION_FAILED"
	ErrCodeOpenAIError         = "OPENAI_ERROR"
	ErrCodeDeepSeekError       = "DEEPSEEK_ERROR"
)

// ContentGenerationResult is the outcome envelope returned by every
// generation and regeneration call. Success implies Content is present;
// failure implies Content is absent and Error is set. It is never
// partially valid.
type ContentGenerationResult struct {
	Success   bool            `json:"success"`
	Content   *ProductContent `json:"content,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Usage     *TokenUsage     `json:"usage,omitempty"`
}

// SuccessResult wraps generated content in a positive envelope.
func SuccessResult(content *ProductContent, usage *TokenUsage) *ContentGenerationResult {
	return &ContentGenerationResult{
		Success: true,
		Content: content,
		Usage:   usage,
	}
}

// FailureResult builds a well-formed negative envelope.
func FailureResult(code, message string) *ContentGenerationResult {
	return &ContentGenerationResult{
		Success:   false,
		Error:     message,
		ErrorCode: code,
	}
}
