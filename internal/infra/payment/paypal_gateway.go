package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/infra/metrics"
)

// PayPalGateway implements adapter.PaymentGateway using direct HTTP calls to
// the PayPal REST API (orders v2, billing v1).
type PayPalGateway struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalGateway creates a new gateway client. sandbox selects the PayPal
// sandbox environment.
func NewPayPalGateway(clientID, clientSecret string, sandbox bool) (*PayPalGateway, error) {
	if clientID == "" || clientSecret == "" {
		return nil, domain.ErrInvalidArgument
	}
	baseURL := "https://api-m.paypal.com"
	if sandbox {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalGateway{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (g *PayPalGateway) Name() string { return "paypal" }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

func approveLink(links []link) string {
	for _, l := range links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

// token returns a cached OAuth2 client-credentials token, refreshing it when
// it is within a minute of expiry.
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accessToken != "" && time.Now().Before(g.tokenExpiry.Add(-time.Minute)) {
		return g.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(g.clientID, g.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w, body: %s", err, string(body))
	}
	if tr.AccessToken == "" {
		return "", domain.ErrGatewayResponse
	}

	g.accessToken = tr.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return g.accessToken, nil
}

// do wraps call with a per-operation outcome counter.
func (g *PayPalGateway) do(ctx context.Context, op, method, path string, payload, out any) error {
	if err := g.call(ctx, method, path, payload, out); err != nil {
		metrics.IncGatewayCall(op, "error")
		return err
	}
	metrics.IncGatewayCall(op, "ok")
	return nil
}

// call sends an authorized JSON request and decodes the response into out
// (when out is non-nil). Non-2xx statuses are returned as errors.
func (g *PayPalGateway) call(ctx context.Context, method, path string, payload, out any) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("paypal error: %s %s status %d, body: %s", method, path, resp.StatusCode, string(respBody))
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []link `json:"links"`
}

// CreateOrder creates a CAPTURE-intent order and returns its id and approve URL.
func (g *PayPalGateway) CreateOrder(ctx context.Context, amount float64, currency, returnURL, cancelURL string) (*adapter.GatewayOrder, error) {
	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	var resp orderResponse
	if err := g.do(ctx, "create_order", http.MethodPost, "/v2/checkout/orders", payload, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, domain.ErrGatewayResponse
	}
	return &adapter.GatewayOrder{
		OrderID:    resp.ID,
		Status:     resp.Status,
		ApproveURL: approveLink(resp.Links),
	}, nil
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder captures a previously approved order. PayPal's capture by
// order id is idempotent on their side.
func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*adapter.GatewayCapture, error) {
	var resp captureResponse
	if err := g.do(ctx, "capture_order", http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &resp); err != nil {
		return nil, err
	}

	captureID := ""
	for _, pu := range resp.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			if c.ID != "" {
				captureID = c.ID
				break
			}
		}
	}
	return &adapter.GatewayCapture{
		OrderID:   resp.ID,
		Status:    resp.Status,
		CaptureID: captureID,
	}, nil
}

type subscriptionResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	CustomID string `json:"custom_id"`
	Links    []link `json:"links"`
}

// CreateSubscription creates a gateway subscription against a pre-configured
// billing plan. customID ties the subscription back to our service record.
func (g *PayPalGateway) CreateSubscription(ctx context.Context, planID, customID, returnURL, cancelURL string) (*adapter.GatewaySubscription, error) {
	payload := map[string]any{
		"plan_id":   planID,
		"custom_id": customID,
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	var resp subscriptionResponse
	if err := g.do(ctx, "create_subscription", http.MethodPost, "/v1/billing/subscriptions", payload, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, domain.ErrGatewayResponse
	}
	return &adapter.GatewaySubscription{
		SubscriptionID: resp.ID,
		Status:         resp.Status,
		ApproveURL:     approveLink(resp.Links),
		CustomID:       customID,
	}, nil
}

// GetSubscription fetches the current provider-side subscription state.
func (g *PayPalGateway) GetSubscription(ctx context.Context, subscriptionID string) (*adapter.GatewaySubscription, error) {
	var resp subscriptionResponse
	if err := g.do(ctx, "get_subscription", http.MethodGet, "/v1/billing/subscriptions/"+subscriptionID, nil, &resp); err != nil {
		return nil, err
	}
	return &adapter.GatewaySubscription{
		SubscriptionID: resp.ID,
		Status:         resp.Status,
		ApproveURL:     approveLink(resp.Links),
		CustomID:       resp.CustomID,
	}, nil
}

// CancelSubscription cancels a provider-side subscription.
func (g *PayPalGateway) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	payload := map[string]string{"reason": reason}
	return g.do(ctx, "cancel_subscription", http.MethodPost, "/v1/billing/subscriptions/"+subscriptionID+"/cancel", payload, nil)
}
