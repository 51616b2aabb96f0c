package application

import (
	"context"
	"fmt"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"
	"copyforge-core-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const productQuery = `query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    descriptionHtml
    images(first: 10) {
      nodes {
        url
        altText
      }
    }
    metafields(first: 20) {
      nodes {
        namespace
        key
        value
      }
    }
  }
}`

const storeContextQuery = `query getShop {
  shop {
    id
    name
    description
    email
    primaryDomain {
      host
    }
  }
}`

const productUpdateMutation = `mutation updateProduct($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

// ProductService fetches product snapshots and writes generated content back
// through the Admin GraphQL API.
type ProductService struct {
	admin  ports.AdminAPI
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(admin ports.AdminAPI, logger zerolog.Logger) *ProductService {
	return &ProductService{admin: admin, logger: logger}
}

// GetProduct fetches a per-request snapshot of the product. Nothing is
// cached or persisted locally.
func (s *ProductService) GetProduct(ctx context.Context, scope domain.ShopScope, productID string) (*domain.ProductData, error) {
	var out struct {
		Product *struct {
			ID              string `json:"id"`
			Title           string `json:"title"`
			DescriptionHTML string `json:"descriptionHtml"`
			Images          struct {
				Nodes []struct {
					URL     string `json:"url"`
					AltText string `json:"altText"`
				} `json:"nodes"`
			} `json:"images"`
			Metafields struct {
				Nodes []struct {
					Namespace string `json:"namespace"`
					Key       string `json:"key"`
					Value     string `json:"value"`
				} `json:"nodes"`
			} `json:"metafields"`
		} `json:"product"`
	}

	vars := map[string]interface{}{"id": productGID(productID)}
	if err := s.admin.Query(ctx, scope, productQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product %s not found", productID)
	}

	product := &domain.ProductData{
		ID:          out.Product.ID,
		Title:       out.Product.Title,
		Description: out.Product.DescriptionHTML,
	}
	for _, img := range out.Product.Images.Nodes {
		product.Images = append(product.Images, domain.ProductImage{URL: img.URL, AltText: img.AltText})
	}
	for _, mf := range out.Product.Metafields.Nodes {
		product.Metafields = append(product.Metafields, domain.ProductMetafield{
			Namespace: mf.Namespace,
			Key:       mf.Key,
			Value:     mf.Value,
		})
	}
	return product, nil
}

// GetStoreContext fetches shop identity and branding.
func (s *ProductService) GetStoreContext(ctx context.Context, scope domain.ShopScope) (*domain.StoreContext, error) {
	var out struct {
		Shop struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Description   string `json:"description"`
			Email         string `json:"email"`
			PrimaryDomain struct {
				Host string `json:"host"`
			} `json:"primaryDomain"`
		} `json:"shop"`
	}

	if err := s.admin.Query(ctx, scope, storeContextQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch shop: %w", err)
	}

	return &domain.StoreContext{
		ID:          out.Shop.ID,
		Name:        out.Shop.Name,
		Description: out.Shop.Description,
		Email:       out.Shop.Email,
		Domain:      out.Shop.PrimaryDomain.Host,
	}, nil
}

// ApplyContent writes generated title and description back to the product.
func (s *ProductService) ApplyContent(ctx context.Context, scope domain.ShopScope, productID string, content domain.ProductContent) error {
	var out struct {
		ProductUpdate struct {
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"productUpdate"`
	}

	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"id":              productGID(productID),
			"title":           content.Title,
			"descriptionHtml": content.Description,
		},
	}
	if err := s.admin.Query(ctx, scope, productUpdateMutation, vars, &out); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if errs := out.ProductUpdate.UserErrors; len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("productUpdate rejected: %s", strings.Join(msgs, "; "))
	}

	s.logger.Info().Str("shop", scope.Domain).Str("product", productID).Msg("Applied generated content to product")
	return nil
}

// productGID accepts either a bare numeric ID or a full GID.
func productGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/Product/" + id
}
