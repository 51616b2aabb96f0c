package ports

import (
	"context"

	"copyforge-core-shopify-layer/internal/domain"
)

// GenerationLogRepository persists generation call outcomes per shop.
type GenerationLogRepository interface {
	Create(ctx context.Context, log *domain.GenerationLog) error

	// ListByShop returns the most recent entries first.
	ListByShop(ctx context.Context, shop string, limit int64) ([]*domain.GenerationLog, error)

	// DeleteByShop removes every entry for a shop, e.g. on app uninstall.
	DeleteByShop(ctx context.Context, shop string) error
}
