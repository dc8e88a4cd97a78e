package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/shopkart-backend/pkg/config"
)

// Product is the catalog's view of a sellable item. WeightKg is optional;
// zero means the catalog has no weight on file and the flat per-unit model
// applies.
type Product struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
}

// CatalogClient reads product metadata.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)
}

type catalogClient struct {
	httpClient httpDoer
	baseURL    string
}

// NewCatalogClient builds the catalog service adapter.
func NewCatalogClient(cfg config.CatalogConfig) (CatalogClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	return &catalogClient{
		httpClient: newHTTPClient(cfg.Timeout),
		baseURL:    strings.TrimSpace(cfg.BaseURL),
	}, nil
}

func (c *catalogClient) GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error) {
	var product Product
	endpoint := joinURL(c.baseURL, fmt.Sprintf("products/%s", url.PathEscape(productID.String())))
	err := retryOnce(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.httpClient, http.MethodGet, endpoint, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
