package entity

import (
	"time"

	"copyforge-core-shopify-layer/internal/domain"
)

// MongoGenerationLogDoc is the MongoDB document for a generation log entry.
type MongoGenerationLogDoc struct {
	ID         string    `bson:"_id"`
	Shop       string    `bson:"shop"`
	ProductID  string    `bson:"product_id"`
	Provider   string    `bson:"provider"`
	Kind       string    `bson:"kind"`
	Success    bool      `bson:"success"`
	ErrorCode  string    `bson:"error_code,omitempty"`
	Usage      *usageDoc `bson:"usage,omitempty"`
	DurationMs int64     `bson:"duration_ms"`
	CreatedAt  time.Time `bson:"created_at"`
}

type usageDoc struct {
	PromptTokens     int `bson:"prompt_tokens"`
	CompletionTokens int `bson:"completion_tokens"`
	TotalTokens      int `bson:"total_tokens"`
}

// MongoGenerationLogDocFromDomain converts a domain log to its document form.
func MongoGenerationLogDocFromDomain(log *domain.GenerationLog) *MongoGenerationLogDoc {
	doc := &MongoGenerationLogDoc{
		ID:         log.ID,
		Shop:       log.Shop,
		ProductID:  log.ProductID,
		Provider:   log.Provider,
		Kind:       string(log.Kind),
		Success:    log.Success,
		ErrorCode:  log.ErrorCode,
		DurationMs: log.DurationMs,
		CreatedAt:  log.CreatedAt,
	}
	if log.Usage != nil {
		doc.Usage = &usageDoc{
			PromptTokens:     log.Usage.PromptTokens,
			CompletionTokens: log.Usage.CompletionTokens,
			TotalTokens:      log.Usage.TotalTokens,
		}
	}
	return doc
}

// ToDomain converts the document back to its domain form.
func (d *MongoGenerationLogDoc) ToDomain() *domain.GenerationLog {
	log := &domain.GenerationLog{
		ID:         d.ID,
		Shop:       d.Shop,
		ProductID:  d.ProductID,
		Provider:   d.Provider,
		Kind:       domain.GenerationKind(d.Kind),
		Success:    d.Success,
		ErrorCode:  d.ErrorCode,
		DurationMs: d.DurationMs,
		CreatedAt:  d.CreatedAt,
	}
	if d.Usage != nil {
		log.Usage = &domain.TokenUsage{
			PromptTokens:     d.Usage.PromptTokens,
			CompletionTokens: d.Usage.CompletionTokens,
			TotalTokens:      d.Usage.TotalTokens,
		}
	}
	return log
}
