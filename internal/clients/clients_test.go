package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arjunmehra/shopkart-backend/pkg/config"
	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
)

func TestGetCartDecodesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/carts/user-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"product_id": uuid.NewString(), "product_name": "Widget", "quantity": 2, "unit_price": "199.00"},
			},
			"total_price": "398.00",
		})
	}))
	defer srv.Close()

	client, err := NewCartClient(config.CartConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewCartClient returned error: %v", err)
	}

	snapshot, err := client.GetCart(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(snapshot.Items))
	}
	if snapshot.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", snapshot.Items[0].Quantity)
	}
}

func TestClearCartIssuesDelete(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewCartClient(config.CartConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewCartClient returned error: %v", err)
	}
	if err := client.ClearCart(context.Background(), "user-1"); err != nil {
		t.Fatalf("ClearCart returned error: %v", err)
	}
	if method != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", method)
	}
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewCatalogClient(config.CatalogConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewCatalogClient returned error: %v", err)
	}

	_, err = client.GetProduct(context.Background(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetPriceRetriesTransientFailure(t *testing.T) {
	var calls int
	productID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"product_id": productID.String(),
			"price":      "499.00",
			"currency":   "INR",
		})
	}))
	defer srv.Close()

	client, err := NewPricingClient(config.PricingConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewPricingClient returned error: %v", err)
	}

	price, err := client.GetPrice(context.Background(), productID)
	if err != nil {
		t.Fatalf("GetPrice returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a single retry, got %d calls", calls)
	}
	if price.Currency != "INR" {
		t.Fatalf("unexpected currency %q", price.Currency)
	}
}

func TestGetPriceGivesUpAfterOneRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewPricingClient(config.PricingConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewPricingClient returned error: %v", err)
	}

	_, err = client.GetPrice(context.Background(), uuid.New())
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewCatalogClient(config.CatalogConfig{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewCatalogClient returned error: %v", err)
	}

	_, _ = client.GetProduct(context.Background(), uuid.New())
	if calls != 1 {
		t.Fatalf("expected no retry on 404, got %d calls", calls)
	}
}

func TestClientConstructorsRequireBaseURL(t *testing.T) {
	if _, err := NewCartClient(config.CartConfig{}); err == nil {
		t.Fatalf("expected error for missing cart base url")
	}
	if _, err := NewCatalogClient(config.CatalogConfig{}); err == nil {
		t.Fatalf("expected error for missing catalog base url")
	}
	if _, err := NewPricingClient(config.PricingConfig{}); err == nil {
		t.Fatalf("expected error for missing pricing base url")
	}
}
