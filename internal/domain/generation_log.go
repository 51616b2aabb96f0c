package domain

import "time"

// GenerationKind distinguishes the facade operation that produced a log entry.
type GenerationKind string

const (
	GenerationKindGenerate   GenerationKind = "generate"
	GenerationKindRegenerate GenerationKind = "regenerate"
	GenerationKindImage      GenerationKind = "image"
)

// GenerationLog records the outcome of one generation call for a shop.
// Logging is best-effort: a failed write never fails the request.
type GenerationLog struct {
	ID         string         `json:"id"`
	Shop       string         `json:"shop"`
	ProductID  string         `json:"product_id"`
	Provider   string         `json:"provider"`
	Kind       GenerationKind `json:"kind"`
	Success    bool           `json:"success"`
	ErrorCode  string         `json:"error_code,omitempty"`
	Usage      *TokenUsage    `json:"usage,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}
