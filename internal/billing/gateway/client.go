package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

// PaymentGateway creates and confirms card charges. CreateIntent issues a
// fresh intent per submission attempt; intents are never reused across
// retries. Neither call is retried by the core.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64) (*Intent, error)
	Confirm(ctx context.Context, intent *Intent, instrument domain.Instrument) (*ConfirmedCharge, error)
}

// Intent is a provider-issued handle for a pending charge.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// ConfirmedCharge is the provider's record of a successful transfer.
type ConfirmedCharge struct {
	ChargeID string `json:"charge_id"`
}

// Client drives the two-step card charge: the projects API issues the intent
// and the provider confirms it against a captured instrument.
type Client struct {
	apiBaseURL      string
	providerBaseURL string
	httpClient      *http.Client
	limiter         *rate.Limiter
}

// NewClient creates a new gateway client. rps bounds outbound provider
// traffic; zero or negative disables the limit.
func NewClient(apiBaseURL, providerBaseURL string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		apiBaseURL:      strings.TrimRight(apiBaseURL, "/"),
		providerBaseURL: strings.TrimRight(providerBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: rate.NewLimiter(limit, 5),
	}
}

// CreateIntent asks the projects API for a payment intent covering amountMinor
// cents.
func (c *Client) CreateIntent(ctx context.Context, amountMinor int64) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("intent amount must be positive, got %d", amountMinor)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}

	reqBody := struct {
		Amount int64 `json:"amount"`
	}{Amount: amountMinor}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/proyectos/create-payment-intent", c.apiBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, gatewayError(resp.StatusCode, body)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intent: %w", err)
	}
	if intent.ClientSecret == "" {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: "intent response missing client secret"}
	}
	return &intent, nil
}

type confirmResponse struct {
	Status   string `json:"status"`
	ChargeID string `json:"charge_id"`
	Error    struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Confirm presents the captured instrument against the intent and returns the
// confirmed charge. Runs to a terminal outcome once issued; there is no
// mid-flight cancellation.
func (c *Client) Confirm(ctx context.Context, intent *Intent, instrument domain.Instrument) (*ConfirmedCharge, error) {
	if c.providerBaseURL == "" {
		return nil, &domain.GatewayError{Kind: domain.GatewayNotReady, Message: "provider not configured"}
	}
	if instrument.Token == "" {
		return nil, &domain.GatewayError{Kind: domain.GatewayNotReady, Message: "no payment instrument captured"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}

	reqBody := struct {
		ClientSecret string `json:"client_secret"`
		Token        string `json:"payment_token"`
	}{ClientSecret: intent.ClientSecret, Token: instrument.Token}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", c.providerBaseURL, intent.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: err.Error()}
	}

	var confirm confirmResponse
	if err := json.Unmarshal(body, &confirm); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, gatewayError(resp.StatusCode, body)
		}
		return nil, fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}

	if resp.StatusCode != http.StatusOK || confirm.Status != "succeeded" {
		if confirm.Error.Code == "card_declined" || resp.StatusCode == http.StatusPaymentRequired {
			return nil, &domain.GatewayError{Kind: domain.GatewayDeclined, Message: confirm.Error.Message}
		}
		return nil, gatewayError(resp.StatusCode, body)
	}
	if confirm.ChargeID == "" {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnavailable, Message: "confirmation missing charge id"}
	}
	return &ConfirmedCharge{ChargeID: confirm.ChargeID}, nil
}

func gatewayError(status int, body []byte) *domain.GatewayError {
	kind := domain.GatewayUnavailable
	if status == http.StatusPaymentRequired {
		kind = domain.GatewayDeclined
	}
	return &domain.GatewayError{
		Kind:    kind,
		Message: fmt.Sprintf("status %d: %s", status, strings.TrimSpace(string(body))),
	}
}
