package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/arjunmehra/shopkart-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api-m.sandbox.paypal.com"
	requestBodyReadLimit int64 = 2048
	tokenExpirySlack           = 30 * time.Second
)

var (
	errCredentialsRequired = errors.New("paypal client id and secret are required")
)

// Client wraps the PayPal Orders v2 API used for gateway checkouts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured PayPal base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the PayPal client given API credentials.
func NewClient(clientID, secret string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(secret) == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		clientID:   strings.TrimSpace(clientID),
		secret:     strings.TrimSpace(secret),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// CreateOrderResult holds the gateway order id and the buyer approval link.
type CreateOrderResult struct {
	OrderID     string
	ApproveLink string
}

// CaptureResult holds the outcome of capturing an approved order.
type CaptureResult struct {
	OrderID    string
	CaptureID  string
	Status     string
	RawPayload map[string]any
}

// CreateOrder opens a gateway order and returns the approval link the buyer
// must visit. requestID is forwarded as PayPal-Request-Id so retries of the
// same checkout attempt do not open duplicate orders.
func (c *Client) CreateOrder(ctx context.Context, requestID string, amount decimal.Decimal, currency string) (*CreateOrderResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": requestID,
				"amount": map[string]string{
					"currency_code": strings.ToUpper(currency),
					"value":         amount.StringFixed(2),
				},
			},
		},
	}

	var apiResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", requestID, body, &apiResp); err != nil {
		return nil, err
	}

	result := &CreateOrderResult{OrderID: apiResp.ID}
	for _, link := range apiResp.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			result.ApproveLink = link.Href
			break
		}
	}
	if result.OrderID == "" || result.ApproveLink == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway order response missing id or approval link")
	}
	return result, nil
}

// CaptureOrder captures funds for an approved gateway order.
func (c *Client) CaptureOrder(ctx context.Context, requestID, gatewayOrderID string) (*CaptureResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	if strings.TrimSpace(gatewayOrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id is required")
	}

	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(gatewayOrderID))

	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodPost, path, requestID, map[string]any{}, &raw); err != nil {
		return nil, err
	}

	result := &CaptureResult{
		OrderID:    gatewayOrderID,
		Status:     stringField(raw, "status"),
		CaptureID:  extractCaptureID(raw),
		RawPayload: raw,
	}
	if result.Status != "COMPLETED" {
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed, fmt.Sprintf("capture not completed: status %s", result.Status))
	}
	return result, nil
}

// RefundOrder refunds the captured payment behind a gateway order. It looks
// the capture id up first because the platform only persists order ids.
func (c *Client) RefundOrder(ctx context.Context, requestID, gatewayOrderID string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	if strings.TrimSpace(gatewayOrderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway order id is required")
	}

	path := fmt.Sprintf("/v2/checkout/orders/%s", url.PathEscape(gatewayOrderID))
	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &raw); err != nil {
		return err
	}

	captureID := extractCaptureID(raw)
	if captureID == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "gateway order has no capture to refund")
	}

	refundPath := fmt.Sprintf("/v2/payments/captures/%s/refund", url.PathEscape(captureID))
	return c.doJSON(ctx, http.MethodPost, refundPath, requestID, map[string]any{}, nil)
}

// Ping verifies credentials by requesting an access token.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.token(ctx)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path, requestID string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal gateway request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		httpReq.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gateway request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		detail := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusPaymentRequired {
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, detail, "gateway declined the payment")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, detail, "gateway request failed")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
	}
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/v1/oauth2/token"), form)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gateway token request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gateway token request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "gateway token request failed")
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway token response")
	}
	if tokenResp.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gateway token response missing access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// extractCaptureID digs the first capture id out of an orders API payload:
// purchase_units[0].payments.captures[0].id
func extractCaptureID(raw map[string]any) string {
	units, ok := raw["purchase_units"].([]any)
	if !ok || len(units) == 0 {
		return ""
	}
	unit, ok := units[0].(map[string]any)
	if !ok {
		return ""
	}
	payments, ok := unit["payments"].(map[string]any)
	if !ok {
		return ""
	}
	captures, ok := payments["captures"].([]any)
	if !ok || len(captures) == 0 {
		return ""
	}
	capture, ok := captures[0].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(capture, "id")
}
