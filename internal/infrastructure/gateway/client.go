package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marktline/billing-service/internal/config"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
	"golang.org/x/time/rate"
)

// HTTPGatewayClient talks to the external payment provider. Every call goes
// through a client-side rate limiter; provider 429s surface as
// domain.ErrGatewayRateLimited so the scheduler can back off.
type HTTPGatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.BillingMetrics
}

func NewHTTPGatewayClient(cfg config.Gateway, m *metrics.BillingMetrics) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		metrics: m,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPGatewayClient) doRequest(ctx context.Context, operation, method, endpoint string, payload, out interface{}) error {
	if c.metrics == nil {
		return c.send(ctx, method, endpoint, payload, out)
	}
	return c.metrics.ObserveGateway(operation, func() error {
		return c.send(ctx, method, endpoint, payload, out)
	})
}

func (c *HTTPGatewayClient) send(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewGatewayError("gateway request failed", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return domain.NewGatewayError("failed to read gateway response", err)
	}

	if response.StatusCode == http.StatusTooManyRequests {
		return domain.NewGatewayError("rate limited", domain.ErrGatewayRateLimited)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(responseBody, &errResp); err == nil && errResp.Error != "" {
			return domain.NewGatewayError(errResp.Error, nil)
		}
		return domain.NewGatewayError(fmt.Sprintf("gateway returned status %d", response.StatusCode), nil)
	}

	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return domain.NewGatewayError("failed to decode gateway response", err)
		}
	}
	return nil
}

func (c *HTTPGatewayClient) CreateInvoice(ctx context.Context, customerRef string, amount int64, dueInDays int, metadata map[string]string) (string, error) {
	var resp createInvoiceResponse
	err := c.doRequest(ctx, "create_invoice", http.MethodPost, "/v1/invoices", createInvoiceRequest{
		CustomerRef: customerRef,
		Amount:      amount,
		DueInDays:   dueInDays,
		Metadata:    metadata,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.InvoiceID, nil
}

func (c *HTTPGatewayClient) FinalizeAndSend(ctx context.Context, invoiceID string) error {
	return c.doRequest(ctx, "finalize_invoice", http.MethodPost, fmt.Sprintf("/v1/invoices/%s/finalize", invoiceID), nil, nil)
}

func (c *HTTPGatewayClient) RetrievePaymentIntent(ctx context.Context, intentRef string) (domain.IntentStatus, error) {
	var resp paymentIntentResponse
	if err := c.doRequest(ctx, "retrieve_payment_intent", http.MethodGet, "/v1/payment_intents/"+intentRef, nil, &resp); err != nil {
		return "", err
	}
	return mapIntentStatus(resp.Status), nil
}

func (c *HTTPGatewayClient) CreateTransfer(ctx context.Context, destinationRef string, amount int64) (string, error) {
	var resp createTransferResponse
	err := c.doRequest(ctx, "create_transfer", http.MethodPost, "/v1/transfers", createTransferRequest{
		DestinationRef: destinationRef,
		Amount:         amount,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.TransferID, nil
}

func (c *HTTPGatewayClient) RetrieveSubscription(ctx context.Context, subRef string) (*domain.GatewaySubscription, error) {
	var resp subscriptionResponse
	if err := c.doRequest(ctx, "retrieve_subscription", http.MethodGet, "/v1/subscriptions/"+subRef, nil, &resp); err != nil {
		return nil, err
	}
	return &domain.GatewaySubscription{
		Status:      resp.Status,
		PeriodStart: time.Unix(resp.PeriodStart, 0),
		PeriodEnd:   time.Unix(resp.PeriodEnd, 0),
	}, nil
}

func (c *HTTPGatewayClient) ChargeCustomer(ctx context.Context, customerRef string, amount int64, description string) (string, error) {
	var resp chargeResponse
	err := c.doRequest(ctx, "charge_customer", http.MethodPost, "/v1/charges", chargeRequest{
		CustomerRef: customerRef,
		Amount:      amount,
		Description: description,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ChargeID, nil
}

func mapIntentStatus(status string) domain.IntentStatus {
	switch status {
	case "succeeded":
		return domain.IntentSucceeded
	case "requires_payment_method":
		return domain.IntentRequiresNewMethod
	case "processing":
		return domain.IntentProcessing
	default:
		return domain.IntentFailed
	}
}
