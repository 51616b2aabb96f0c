package ports

import (
	"context"

	"copyforge-core-shopify-layer/internal/domain"
)

// AdminAPI is the boundary to the host platform's GraphQL Admin API.
// The core only needs a client able to run a query with variables and
// decode the response into out.
type AdminAPI interface {
	Query(ctx context.Context, scope domain.ShopScope, query string, variables map[string]interface{}, out interface{}) error
}
