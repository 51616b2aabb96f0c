package shopify

import (
	"testing"

	"copyforge-core-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPool_RequiresScope(t *testing.T) {
	pool := NewClientPool("key", "secret", zerolog.Nop())

	_, err := pool.GetClient(domain.ShopScope{})
	assert.Error(t, err)

	_, err = pool.GetClient(domain.ShopScope{Domain: "example.myshopify.com"})
	assert.Error(t, err)
}

func TestClientPool_ReusesClientPerScope(t *testing.T) {
	pool := NewClientPool("key", "secret", zerolog.Nop())
	scope := domain.ShopScope{Domain: "example.myshopify.com", AccessToken: "shpat_1"}

	first, err := pool.GetClient(scope)
	require.NoError(t, err)
	second, err := pool.GetClient(scope)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestClientPool_NewClientAfterTokenRotation(t *testing.T) {
	pool := NewClientPool("key", "secret", zerolog.Nop())

	first, err := pool.GetClient(domain.ShopScope{Domain: "example.myshopify.com", AccessToken: "shpat_1"})
	require.NoError(t, err)
	second, err := pool.GetClient(domain.ShopScope{Domain: "example.myshopify.com", AccessToken: "shpat_2"})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
