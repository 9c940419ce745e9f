// Package paystack holds the Paystack billing integration: webhook
// signature verification, event parsing, and transaction verification.
package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.paystack.co"

// SignatureHeader carries the HMAC-SHA512 of the webhook body.
const SignatureHeader = "x-paystack-signature"

// EventChargeSuccess is the only webhook event that changes a plan.
const EventChargeSuccess = "charge.success"

// Client performs calls against the Paystack API.
type Client interface {
	VerifyTransaction(ctx context.Context, reference string) (*Transaction, error)
}

// Event is a parsed webhook payload.
type Event struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

// Transaction is the charge object carried by webhooks and returned by
// the verify endpoint.
type Transaction struct {
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
	Amount    int64    `json:"amount"` // minor currency units
	Currency  string   `json:"currency"`
	Customer  Customer `json:"customer"`
	Metadata  Metadata `json:"metadata"`
}

// Customer identifies the paying customer.
type Customer struct {
	Email string `json:"email"`
}

// Metadata carries fields we attach at checkout time.
type Metadata struct {
	UserID string `json:"user_id"`
}

type verifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// NewClient creates a Paystack API client.
func NewClient(secretKey string, opts ...Option) Client {
	c := &httpClient{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// VerifyTransaction confirms a charge with Paystack before acting on
// it. Webhook payloads alone are never trusted for plan changes.
func (c *httpClient) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	if reference == "" {
		return nil, eris.New("paystack: empty transaction reference")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, eris.Wrap(err, "paystack: create request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "paystack: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "paystack: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("paystack: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result verifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "paystack: unmarshal response")
	}
	if !result.Status {
		return nil, eris.Errorf("paystack: verify failed: %s", result.Message)
	}

	return &result.Data, nil
}

// VerifySignature checks a webhook body against its signature header
// using constant-time comparison.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent unmarshals a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, eris.Wrap(err, "paystack: unmarshal event")
	}
	if ev.Event == "" {
		return nil, eris.New("paystack: event missing type")
	}
	return &ev, nil
}
