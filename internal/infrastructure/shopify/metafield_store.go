package shopify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const shopMetafieldQuery = `query shopMetafield($namespace: String!, $key: String!) {
  shop {
    metafield(namespace: $namespace, key: $key) {
      value
    }
  }
}`

const shopIDQuery = `query shopID {
  shop {
    id
  }
}`

const metafieldsSetMutation = `mutation setShopMetafields($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      key
    }
    userErrors {
      field
      message
    }
  }
}`

const metafieldsDeleteMutation = `mutation deleteShopMetafields($metafields: [MetafieldIdentifierInput!]!) {
  metafieldsDelete(metafields: $metafields) {
    userErrors {
      field
      message
    }
  }
}`

const metafieldDefinitionCreateMutation = `mutation createMetafieldDefinition($definition: MetafieldDefinitionInput!) {
  metafieldDefinitionCreate(definition: $definition) {
    userErrors {
      code
      message
    }
  }
}`

type userError struct {
	Field   []string `json:"field"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

type metafieldDefinition struct {
	Name string
	Key  string
	Type string
}

// Definitions declared by EnsureDefinitions before first use.
var requiredDefinitions = []metafieldDefinition{
	{Name: "Encrypted API key", Key: ports.MetafieldKeyEncryptedKey, Type: ports.MetafieldTypeSingleLineText},
	{Name: "AI provider", Key: ports.MetafieldKeyProvider, Type: ports.MetafieldTypeSingleLineText},
	{Name: "Custom prompt", Key: ports.MetafieldKeyCustomPrompt, Type: ports.MetafieldTypeMultiLineText},
	{Name: "Default content length", Key: ports.MetafieldKeyDefaultLength, Type: ports.MetafieldTypeInteger},
}

// MetafieldStore implements the metafield key/value contract over the Admin
// GraphQL API. Values are stored as shop metafields.
type MetafieldStore struct {
	admin  ports.AdminAPI
	logger zerolog.Logger

	mu      sync.Mutex
	shopIDs map[string]string
	ensured map[string]bool
}

// NewMetafieldStore creates a store backed by the Admin API.
func NewMetafieldStore(admin ports.AdminAPI, logger zerolog.Logger) *MetafieldStore {
	return &MetafieldStore{
		admin:   admin,
		logger:  logger,
		shopIDs: make(map[string]string),
		ensured: make(map[string]bool),
	}
}

// Get returns the stored value for the key; ok is false for never-set keys.
func (s *MetafieldStore) Get(ctx context.Context, scope domain.ShopScope, namespace, key string) (string, bool, error) {
	var out struct {
		Shop struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"shop"`
	}

	vars := map[string]interface{}{
		"namespace": namespace,
		"key":       key,
	}
	if err := s.admin.Query(ctx, scope, shopMetafieldQuery, vars, &out); err != nil {
		return "", false, fmt.Errorf("failed to read metafield %s.%s: %w", namespace, key, err)
	}

	if out.Shop.Metafield == nil {
		return "", false, nil
	}
	return out.Shop.Metafield.Value, true, nil
}

// Set writes a single field.
func (s *MetafieldStore) Set(ctx context.Context, scope domain.ShopScope, namespace string, field ports.MetafieldField) error {
	return s.SetMany(ctx, scope, namespace, []ports.MetafieldField{field})
}

// SetMany writes several fields of one record in a single metafieldsSet
// mutation, so the record cannot be half-written.
func (s *MetafieldStore) SetMany(ctx context.Context, scope domain.ShopScope, namespace string, fields []ports.MetafieldField) error {
	if len(fields) == 0 {
		return nil
	}

	ownerID, err := s.shopID(ctx, scope)
	if err != nil {
		return err
	}

	inputs := make([]map[string]interface{}, 0, len(fields))
	for _, f := range fields {
		valueType := f.Type
		if valueType == "" {
			valueType = ports.MetafieldTypeSingleLineText
		}
		inputs = append(inputs, map[string]interface{}{
			"ownerId":   ownerID,
			"namespace": namespace,
			"key":       f.Key,
			"type":      valueType,
			"value":     f.Value,
		})
	}

	var out struct {
		MetafieldsSet struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}

	vars := map[string]interface{}{"metafields": inputs}
	if err := s.admin.Query(ctx, scope, metafieldsSetMutation, vars, &out); err != nil {
		return fmt.Errorf("failed to set metafields in %s: %w", namespace, err)
	}

	if len(out.MetafieldsSet.UserErrors) > 0 {
		return fmt.Errorf("metafieldsSet rejected: %s", joinUserErrors(out.MetafieldsSet.UserErrors))
	}
	return nil
}

// Delete removes the named keys. Missing keys are not an error.
func (s *MetafieldStore) Delete(ctx context.Context, scope domain.ShopScope, namespace string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	ownerID, err := s.shopID(ctx, scope)
	if err != nil {
		return err
	}

	identifiers := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, map[string]interface{}{
			"ownerId":   ownerID,
			"namespace": namespace,
			"key":       key,
		})
	}

	var out struct {
		MetafieldsDelete struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsDelete"`
	}

	vars := map[string]interface{}{"metafields": identifiers}
	if err := s.admin.Query(ctx, scope, metafieldsDeleteMutation, vars, &out); err != nil {
		return fmt.Errorf("failed to delete metafields in %s: %w", namespace, err)
	}

	if len(out.MetafieldsDelete.UserErrors) > 0 {
		return fmt.Errorf("metafieldsDelete rejected: %s", joinUserErrors(out.MetafieldsDelete.UserErrors))
	}
	return nil
}

// EnsureDefinitions idempotently declares the metafield definitions the core
// needs. An already-existing definition ("TAKEN") counts as success. The
// result is cached per shop for the life of the process.
func (s *MetafieldStore) EnsureDefinitions(ctx context.Context, scope domain.ShopScope) error {
	s.mu.Lock()
	done := s.ensured[scope.Domain]
	s.mu.Unlock()
	if done {
		return nil
	}

	for _, def := range requiredDefinitions {
		var out struct {
			MetafieldDefinitionCreate struct {
				UserErrors []userError `json:"userErrors"`
			} `json:"metafieldDefinitionCreate"`
		}

		vars := map[string]interface{}{
			"definition": map[string]interface{}{
				"name":      def.Name,
				"namespace": ports.MetafieldNamespace,
				"key":       def.Key,
				"type":      def.Type,
				"ownerType": "SHOP",
			},
		}
		if err := s.admin.Query(ctx, scope, metafieldDefinitionCreateMutation, vars, &out); err != nil {
			return fmt.Errorf("failed to create metafield definition %s: %w", def.Key, err)
		}

		for _, ue := range out.MetafieldDefinitionCreate.UserErrors {
			if strings.EqualFold(ue.Code, "TAKEN") {
				continue
			}
			return fmt.Errorf("metafield definition %s rejected: %s", def.Key, ue.Message)
		}
	}

	s.mu.Lock()
	s.ensured[scope.Domain] = true
	s.mu.Unlock()

	s.logger.Debug().Str("shop", scope.Domain).Msg("Metafield definitions ensured")
	return nil
}

func (s *MetafieldStore) shopID(ctx context.Context, scope domain.ShopScope) (string, error) {
	s.mu.Lock()
	id, ok := s.shopIDs[scope.Domain]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	var out struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}
	if err := s.admin.Query(ctx, scope, shopIDQuery, nil, &out); err != nil {
		return "", fmt.Errorf("failed to resolve shop id: %w", err)
	}
	if out.Shop.ID == "" {
		return "", fmt.Errorf("shop id missing in response")
	}

	s.mu.Lock()
	s.shopIDs[scope.Domain] = out.Shop.ID
	s.mu.Unlock()
	return out.Shop.ID, nil
}

func joinUserErrors(errs []userError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var _ ports.MetafieldStore = (*MetafieldStore)(nil)
