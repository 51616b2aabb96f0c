package middleware

import (
	"net/http"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// Paths served without a shop scope: monitoring, docs and HMAC-verified
// webhook deliveries.
var publicPrefixes = []string{"/swagger/", "/webhooks/"}
var publicPaths = []string{"/health", "/metrics", "/swagger/doc.json"}

// ShopScopeMiddleware extracts the shop domain and Admin API access token
// from request headers and places them on the context as a domain.ShopScope.
// Requests without both headers are rejected with 401.
func ShopScopeMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			shop := r.Header.Get("X-Shopify-Shop-Domain")
			token := r.Header.Get("X-Shopify-Access-Token")
			if shop == "" || token == "" {
				logger.Debug().Str("path", r.URL.Path).Msg("Request missing shop scope headers")
				http.Error(w, "X-Shopify-Shop-Domain and X-Shopify-Access-Token headers are required", http.StatusUnauthorized)
				return
			}

			ctx := domain.WithShopScope(r.Context(), domain.ShopScope{
				Domain:      shop,
				AccessToken: token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
