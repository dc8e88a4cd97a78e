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
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
)

// CartItem is one line of a user's cart snapshot.
type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CartSnapshot is the cart service's view of a user's cart.
type CartSnapshot struct {
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartClient reads and clears user carts.
type CartClient interface {
	GetCart(ctx context.Context, userID string) (*CartSnapshot, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartClient struct {
	httpClient httpDoer
	baseURL    string
}

// NewCartClient builds the cart service adapter.
func NewCartClient(cfg config.CartConfig) (CartClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("cart base url is required")
	}
	return &cartClient{
		httpClient: newHTTPClient(cfg.Timeout),
		baseURL:    strings.TrimSpace(cfg.BaseURL),
	}, nil
}

func (c *cartClient) GetCart(ctx context.Context, userID string) (*CartSnapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var snapshot CartSnapshot
	endpoint := joinURL(c.baseURL, fmt.Sprintf("carts/%s", url.PathEscape(userID)))
	err := retryOnce(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.httpClient, http.MethodGet, endpoint, &snapshot)
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ClearCart empties the cart. Deleting an already-empty cart is a no-op on
// the cart service, so a retry is safe.
func (c *cartClient) ClearCart(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	endpoint := joinURL(c.baseURL, fmt.Sprintf("carts/%s", url.PathEscape(userID)))
	return retryOnce(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.httpClient, http.MethodDelete, endpoint, nil)
	})
}
