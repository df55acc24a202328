// Package payment wraps the Stripe REST API: creating payment intents for an
// order total and verifying inbound webhook notifications.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GatewayError is returned when the payment provider is unreachable,
// misconfigured or rejected the request.
type GatewayError struct {
	Status  int // HTTP status from the provider, 0 when the call never left
	Message string
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("payment gateway: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("payment gateway: %s", e.Message)
}

// Intent is the provider-side record of an authorized-but-unsettled charge.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type Config struct {
	SecretKey     string
	WebhookSecret string
	APIBase       string // override for tests
	Timeout       time.Duration
}

type Client struct {
	http          *http.Client
	secretKey     string
	webhookSecret string
	apiBase       string
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = "https://api.stripe.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:          &http.Client{Timeout: timeout},
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		apiBase:       base,
	}
}

// AmountInCents converts a decimal currency amount to the provider's smallest
// unit. Truncation is exact for amounts already in whole cents; sub-cent
// inputs are not supported.
func AmountInCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateIntent asks Stripe to reserve intent to charge amountCents.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	if c.secretKey == "" {
		return nil, &GatewayError{Message: "stripe secret key not configured"}
	}
	if amountCents <= 0 {
		return nil, &GatewayError{Message: fmt.Sprintf("invalid amount %d", amountCents)}
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		// timeouts land here too
		return nil, &GatewayError{Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := res.Status
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return nil, &GatewayError{Status: res.StatusCode, Message: msg}
	}

	var in Intent
	if err := json.NewDecoder(res.Body).Decode(&in); err != nil {
		return nil, &GatewayError{Status: res.StatusCode, Message: "invalid response: " + err.Error()}
	}
	return &in, nil
}
