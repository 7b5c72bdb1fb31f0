// Package payment implements the escrow side of the marketplace: a
// minimal client for the Stripe REST API and the initiator that turns
// a fully signed booking into a payment intent.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrProvider wraps any unexpected response from the payment provider.
// Handlers must not forward provider error text to clients; the
// wrapped detail is for server logs only.
var ErrProvider = errors.New("payment provider error")

// StripeClient talks to the Stripe REST API with form-encoded
// requests. Only the two calls the escrow flow needs are implemented:
// customer creation and payment intent creation.
type StripeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewStripeClient returns a client authenticated with the given secret
// key. baseURL overrides the production endpoint and exists for tests;
// pass "" for the real API.
func NewStripeClient(apiKey, baseURL string) *StripeClient {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

// Intent is the subset of a Stripe payment intent the service stores.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type stripeCustomer struct {
	ID string `json:"id"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCustomer creates a customer record for the given email and
// returns its id.
func (c *StripeClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	values := url.Values{}
	values.Set("email", email)
	body, err := c.doRequest(ctx, "/v1/customers", values, "")
	if err != nil {
		return "", err
	}
	var cust stripeCustomer
	if err := json.Unmarshal(body, &cust); err != nil {
		return "", fmt.Errorf("%w: decode customer: %v", ErrProvider, err)
	}
	if cust.ID == "" {
		return "", fmt.Errorf("%w: customer response missing id", ErrProvider)
	}
	return cust.ID, nil
}

// CreatePaymentIntent requests an intent for the given amount in minor
// currency units on behalf of a customer. The booking id travels as
// correlation metadata and doubles as the idempotency key, so a
// repeated request for the same booking cannot double-charge.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, customerID string, bookingID uint64) (Intent, error) {
	values := url.Values{}
	values.Set("amount", strconv.FormatInt(amountCents, 10))
	values.Set("currency", strings.ToLower(currency))
	values.Set("customer", customerID)
	values.Set("automatic_payment_methods[enabled]", "true")
	values.Set("metadata[booking_id]", strconv.FormatUint(bookingID, 10))

	body, err := c.doRequest(ctx, "/v1/payment_intents", values, "booking:"+strconv.FormatUint(bookingID, 10))
	if err != nil {
		return Intent{}, err
	}
	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return Intent{}, fmt.Errorf("%w: decode intent: %v", ErrProvider, err)
	}
	if intent.ClientSecret == "" {
		return Intent{}, fmt.Errorf("%w: intent response missing client_secret", ErrProvider)
	}
	return intent, nil
}

func (c *StripeClient) doRequest(ctx context.Context, path string, values url.Values, idempotencyKey string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing api key", ErrProvider)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr stripeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err == nil && stripeErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrProvider, stripeErr.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrProvider, err)
	}
	return buf, nil
}
