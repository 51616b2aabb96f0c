package shopify

import (
	"context"
	"fmt"
	"sync"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ClientPool caches go-shopify clients per shop so repeated requests under
// the same scope reuse one client.
type ClientPool struct {
	app     goshopify.App
	logger  zerolog.Logger
	mu      sync.Mutex
	clients map[string]*goshopify.Client
}

// NewClientPool creates a pool for the app credentials.
func NewClientPool(apiKey, apiSecret string, logger zerolog.Logger) *ClientPool {
	return &ClientPool{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		logger:  logger,
		clients: make(map[string]*goshopify.Client),
	}
}

// GetClient returns a client for the scope, creating it on first use. The
// cache key includes the access token so a rotated token gets a new client.
func (p *ClientPool) GetClient(scope domain.ShopScope) (*goshopify.Client, error) {
	if scope.Domain == "" {
		return nil, fmt.Errorf("shop domain is required")
	}
	if scope.AccessToken == "" {
		return nil, fmt.Errorf("access token is required for shop %s", scope.Domain)
	}

	key := scope.Domain + ":" + scope.AccessToken

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		return client, nil
	}

	client, err := goshopify.NewClient(p.app, scope.Domain, scope.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", scope.Domain, err)
	}

	p.clients[key] = client
	p.logger.Debug().Str("shop", scope.Domain).Msg("Created Shopify client")
	return client, nil
}

// AdminClient adapts the go-shopify GraphQL service to the AdminAPI port.
type AdminClient struct {
	pool   *ClientPool
	logger zerolog.Logger
}

// NewAdminClient creates an Admin API adapter backed by the pool.
func NewAdminClient(pool *ClientPool, logger zerolog.Logger) *AdminClient {
	return &AdminClient{pool: pool, logger: logger}
}

// Query runs one GraphQL query against the shop's Admin API and decodes the
// response data into out.
func (c *AdminClient) Query(ctx context.Context, scope domain.ShopScope, query string, variables map[string]interface{}, out interface{}) error {
	client, err := c.pool.GetClient(scope)
	if err != nil {
		return err
	}

	if err := client.GraphQL.Query(ctx, query, variables, out); err != nil {
		return fmt.Errorf("admin graphql query failed: %w", err)
	}
	return nil
}

var _ ports.AdminAPI = (*AdminClient)(nil)
