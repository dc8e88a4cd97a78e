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

// Price is the pricing service's current price for one product.
type Price struct {
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
}

// PricingClient reads current product prices.
type PricingClient interface {
	GetPrice(ctx context.Context, productID uuid.UUID) (*Price, error)
}

type pricingClient struct {
	httpClient httpDoer
	baseURL    string
}

// NewPricingClient builds the pricing service adapter.
func NewPricingClient(cfg config.PricingConfig) (PricingClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("pricing base url is required")
	}
	return &pricingClient{
		httpClient: newHTTPClient(cfg.Timeout),
		baseURL:    strings.TrimSpace(cfg.BaseURL),
	}, nil
}

func (c *pricingClient) GetPrice(ctx context.Context, productID uuid.UUID) (*Price, error) {
	var price Price
	endpoint := joinURL(c.baseURL, fmt.Sprintf("prices/%s", url.PathEscape(productID.String())))
	err := retryOnce(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.httpClient, http.MethodGet, endpoint, &price)
	})
	if err != nil {
		return nil, err
	}
	return &price, nil
}
