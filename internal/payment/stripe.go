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

	"github.com/google/uuid"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// StripeClient talks to the Stripe payment-intents REST API. Only the two
// calls the settlement workflow needs are implemented.
type StripeClient struct {
	// secretKey authenticates requests as a Bearer token.
	secretKey string

	// baseURL is overridable for tests.
	baseURL string

	// hc is the http client.
	hc *http.Client
}

// NewStripeClient returns a client bound to the given secret key.
func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		secretKey: secretKey,
		baseURL:   stripeBaseURL,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// idempotencyKey returns a deterministic UUID for the booking named in
// the metadata (same booking, same key across retries), or a random one
// when no booking is present.
func idempotencyKey(metadata map[string]string) string {
	if id := metadata["booking_id"]; id != "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte("payment-intent/booking/"+id)).String()
	}
	return uuid.NewString()
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent creates a payment intent. An Idempotency-Key header guards
// against duplicate intents when a request is retried after a network
// failure. The key is derived from the booking in the metadata, so a
// retried creation for the same booking reuses the same key and the
// gateway deduplicates it; only metadata without a booking falls back to
// a random key.
func (c *StripeClient) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", idempotencyKey(metadata))

	var out intentResponse
	if err := c.do(req, &out); err != nil {
		return Intent{}, err
	}
	return Intent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}

// Retrieve fetches an intent and returns its status string.
func (c *StripeClient) Retrieve(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	var out intentResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *StripeClient) do(req *http.Request, out *intentResponse) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("stripe: decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := "unknown error"
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return fmt.Errorf("stripe: %s (http %d)", msg, resp.StatusCode)
	}
	return nil
}
