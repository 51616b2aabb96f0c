package application

import (
	"context"
	"fmt"
	"sync"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"
)

// fakeMetafieldStore keeps fields in memory, keyed shop/namespace/key. It
// records every SetMany batch so tests can assert on write atomicity.
type fakeMetafieldStore struct {
	mu             sync.Mutex
	values         map[string]string
	setManyBatches [][]ports.MetafieldField
	getErr         error
	setManyErr     error
	definitionsErr error
}

func newFakeMetafieldStore() *fakeMetafieldStore {
	return &fakeMetafieldStore{values: make(map[string]string)}
}

func (f *fakeMetafieldStore) storageKey(scope domain.ShopScope, namespace, key string) string {
	return scope.Domain + "/" + namespace + "/" + key
}

func (f *fakeMetafieldStore) Get(ctx context.Context, scope domain.ShopScope, namespace, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[f.storageKey(scope, namespace, key)]
	return v, ok, nil
}

func (f *fakeMetafieldStore) Set(ctx context.Context, scope domain.ShopScope, namespace string, field ports.MetafieldField) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[f.storageKey(scope, namespace, field.Key)] = field.Value
	return nil
}

func (f *fakeMetafieldStore) SetMany(ctx context.Context, scope domain.ShopScope, namespace string, fields []ports.MetafieldField) error {
	if f.setManyErr != nil {
		return f.setManyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setManyBatches = append(f.setManyBatches, fields)
	for _, field := range fields {
		f.values[f.storageKey(scope, namespace, field.Key)] = field.Value
	}
	return nil
}

func (f *fakeMetafieldStore) Delete(ctx context.Context, scope domain.ShopScope, namespace string, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, f.storageKey(scope, namespace, key))
	}
	return nil
}

func (f *fakeMetafieldStore) EnsureDefinitions(ctx context.Context, scope domain.ShopScope) error {
	return f.definitionsErr
}

var _ ports.MetafieldStore = (*fakeMetafieldStore)(nil)

// fakeProvider returns canned results and records the options it was
// called with.
type fakeProvider struct {
	name       string
	result     *domain.ContentGenerationResult
	lastOpts   domain.GenerationOptions
	lastPrompt string
	panicMsg   string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) GenerateProductContent(ctx context.Context, product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	p.lastOpts = opts
	p.lastPrompt = customPrompt
	return p.result
}

func (p *fakeProvider) RegenerateContent(ctx context.Context, previous domain.ProductContent, feedback string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	p.lastOpts = opts
	return p.result
}

var _ ports.ContentProvider = (*fakeProvider)(nil)

// fakeImageProvider adds the image capability on top of fakeProvider.
type fakeImageProvider struct {
	fakeProvider
	imageResult *domain.ContentGenerationResult
	lastImage   string
}

func (p *fakeImageProvider) GenerateFromImage(ctx context.Context, product domain.ProductData, imageURL string, customPrompt string, opts domain.GenerationOptions) *domain.ContentGenerationResult {
	p.lastImage = imageURL
	p.lastOpts = opts
	return p.imageResult
}

var _ ports.ImageContentProvider = (*fakeImageProvider)(nil)

// fakeRegistry resolves every supported identifier to one fixed provider and
// records the API key it was handed.
type fakeRegistry struct {
	provider    ports.ContentProvider
	supported   map[string]bool
	lastAPIKey  string
	resolveErr  error
	resolveHits int
}

func (r *fakeRegistry) Resolve(providerID, apiKey string) (ports.ContentProvider, error) {
	r.resolveHits++
	if r.resolveErr != nil {
		return nil, r.resolveErr
	}
	if !r.supported[providerID] {
		return nil, fmt.Errorf("unsupported provider %q", providerID)
	}
	r.lastAPIKey = apiKey
	return r.provider, nil
}

func (r *fakeRegistry) Supported(providerID string) bool {
	return r.supported[providerID]
}

var _ ports.ProviderRegistry = (*fakeRegistry)(nil)

// fakeLogRepository collects entries in memory.
type fakeLogRepository struct {
	mu      sync.Mutex
	entries []*domain.GenerationLog
}

func (f *fakeLogRepository) Create(ctx context.Context, log *domain.GenerationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeLogRepository) ListByShop(ctx context.Context, shop string, limit int64) ([]*domain.GenerationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.GenerationLog
	for _, e := range f.entries {
		if e.Shop == shop {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogRepository) DeleteByShop(ctx context.Context, shop string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.Shop != shop {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

var _ ports.GenerationLogRepository = (*fakeLogRepository)(nil)
