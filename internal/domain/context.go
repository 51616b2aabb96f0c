package domain

import "context"

// ShopScope identifies the authenticated shop a request executes under.
// It is passed by value; handlers place it on the request context and
// services read it back with ShopScopeFromContext.
type ShopScope struct {
	// Domain is the myshopify domain, e.g. "example.myshopify.com".
	Domain string
	// AccessToken is the Admin API token for the shop.
	AccessToken string
}

type contextKey string

const shopScopeKey contextKey = "shop_scope"

// WithShopScope returns a context carrying the shop scope (type-safe).
func WithShopScope(ctx context.Context, scope ShopScope) context.Context {
	return context.WithValue(ctx, shopScopeKey, scope)
}

// ShopScopeFromContext extracts the shop scope from the context.
func ShopScopeFromContext(ctx context.Context) (ShopScope, bool) {
	scope, ok := ctx.Value(shopScopeKey).(ShopScope)
	return scope, ok
}
