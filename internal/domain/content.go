package domain

import "fmt"

// Supported provider identifiers. The identifier is what gets persisted in
// the shop's metafield record, so renaming one invalidates stored credentials.
const (
	ProviderOpenAI   = "openaiApiKey"
	ProviderDeepSeek = "deepseekApiKey"
)

// Tone adjusts the writing style requested from the provider.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneEnthusiastic Tone = "enthusiastic"
)

// Content length bounds in words, inclusive.
const (
	MinContentLength = 100
	MaxContentLength = 500
)

// GenerationOptions are the user-tunable knobs for a single generation call.
type GenerationOptions struct {
	Length   int      `json:"length"`
	Tone     Tone     `json:"tone,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Validate rejects options before any network call is attempted.
func (o GenerationOptions) Validate() error {
	if o.Length < MinContentLength || o.Length > MaxContentLength {
		return fmt.Errorf("length must be between %d and %d words, got %d", MinContentLength, MaxContentLength, o.Length)
	}
	switch o.Tone {
	case "", ToneProfessional, ToneCasual, ToneEnthusiastic:
	default:
		return fmt.Errorf("unknown tone %q", o.Tone)
	}
	return nil
}

// ProductData is a per-request snapshot of a merchant's product. It is
// fetched from the Admin API and never persisted locally.
type ProductData struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Images      []ProductImage     `json:"images,omitempty"`
	Metafields  []ProductMetafield `json:"metafields,omitempty"`
}

// ProductImage is a single product image reference.
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// ProductMetafield is a namespaced key/value attribute attached to a product.
type ProductMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// StoreContext carries shop identity and branding fetched on demand.
type StoreContext struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Email       string `json:"email,omitempty"`
}

// ProductContent is the generated artifact. Title and Description are always
// present (possibly empty); the SEO fields and keywords are optional.
type ProductContent struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SEOTitle       string   `json:"seoTitle,omitempty"`
	SEODescription string   `json:"seoDescription,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

// TokenUsage is the provider-reported token accounting for one call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// APIKeyRecord is the stored credential: which provider the shop configured
// and the decrypted secret. The secret only exists in memory; at rest it is
// always the encrypted form.
type APIKeyRecord struct {
	Provider string `json:"provider"`
	Secret   string `json:"-"`
}
