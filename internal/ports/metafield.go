package ports

import (
	"context"

	"copyforge-core-shopify-layer/internal/domain"
)

// Persisted state layout: everything the core stores lives under one shop
// metafield namespace.
const (
	MetafieldNamespace = "apiservice"

	MetafieldKeyEncryptedKey  = "encrypted_key"
	MetafieldKeyProvider      = "provider"
	MetafieldKeyCustomPrompt  = "custom_prompt"
	MetafieldKeyDefaultLength = "default_length"
)

// Metafield value types used by the definitions.
const (
	MetafieldTypeSingleLineText = "single_line_text_field"
	MetafieldTypeMultiLineText  = "multi_line_text_field"
	MetafieldTypeInteger        = "number_integer"
)

// MetafieldField is one key/value pair written through SetMany.
type MetafieldField struct {
	Key   string
	Value string
	// Type is the metafield value type, e.g. "single_line_text_field".
	Type string
}

// MetafieldStore defines namespaced key/value storage scoped to a shop,
// backed by the host platform's metafield API.
type MetafieldStore interface {
	// Get returns the stored value. ok is false when the key was never set;
	// callers must tolerate that without treating it as an error.
	Get(ctx context.Context, scope domain.ShopScope, namespace, key string) (value string, ok bool, err error)

	// Set writes a single field. Failures are reported as errors and are
	// non-fatal to callers.
	Set(ctx context.Context, scope domain.ShopScope, namespace string, field MetafieldField) error

	// SetMany writes several fields of one logical record in a single
	// platform mutation, so the record cannot be half-written.
	SetMany(ctx context.Context, scope domain.ShopScope, namespace string, fields []MetafieldField) error

	// Delete removes the named keys. Missing keys are not an error.
	Delete(ctx context.Context, scope domain.ShopScope, namespace string, keys []string) error

	// EnsureDefinitions idempotently declares the metafield definitions the
	// core needs before first use.
	EnsureDefinitions(ctx context.Context, scope domain.ShopScope) error
}
