// Package gateway is the HTTP client for the external payment gateway.
// Payment status held by the gateway is authoritative; webhook payloads are
// only hints and must be re-fetched through this client before any mutation.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/inscrevia/inscrevia/internal/config"
)

var (
	// ErrUnavailable covers non-2xx responses and transport failures,
	// including timeouts. Callers surface it as a 500 so the gateway's own
	// webhook retry policy re-delivers.
	ErrUnavailable = errors.New("gateway_unavailable")
	ErrNotFound    = errors.New("gateway_not_found")
)

const (
	PaymentStatusReceived  = "RECEIVED"
	PaymentStatusConfirmed = "CONFIRMED"

	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
)

// Payment is the gateway's payment detail record.
type Payment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Customer          string  `json:"customer"`
	ExternalReference string  `json:"externalReference"`
	InvoiceURL        string  `json:"invoiceUrl"`
	DueDate           string  `json:"dueDate"`
	Value             float64 `json:"value"`
	BillingType       string  `json:"billingType"`
}

// Settled reports whether the payment has actually been collected.
func (p Payment) Settled() bool {
	return p.Status == PaymentStatusReceived || p.Status == PaymentStatusConfirmed
}

// Customer is the gateway's payer record.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpfCnpj"`
	Email   string `json:"email"`
}

// apiKeySentinel is the fixed prefix the gateway expects on API keys.
const apiKeySentinel = "$"

// NormalizeAPIKey prepends the gateway's key sentinel when absent.
func NormalizeAPIKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, apiKeySentinel) {
		return key
	}
	return apiKeySentinel + key
}

// Factory builds request-scoped clients. Credentials are resolved per webhook
// and never held as ambient state.
type Factory struct {
	baseURL    string
	httpClient *http.Client
}

func NewFactory(cfg config.Config) *Factory {
	return &Factory{
		baseURL: cfg.Gateway.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.Timeout,
		},
	}
}

// WithAPIKey returns a client credentialed for a single tenant.
func (f *Factory) WithAPIKey(apiKey string) *Client {
	return &Client{
		baseURL:    f.baseURL,
		apiKey:     NormalizeAPIKey(apiKey),
		httpClient: f.httpClient,
	}
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// GetPayment fetches the authoritative payment detail.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	if err := c.get(ctx, "/payments/"+paymentID, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetCustomer fetches the payer record backing a payment.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	var customer Customer
	if err := c.get(ctx, "/customers/"+customerID, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
