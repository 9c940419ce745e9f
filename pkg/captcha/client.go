// Package captcha verifies Cloudflare Turnstile tokens submitted with
// portfolio-creation requests.
package captcha

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Verifier checks a captcha token server-side.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type verifyResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Option configures the verifier.
type Option func(*httpVerifier)

// WithVerifyURL overrides the default siteverify endpoint.
func WithVerifyURL(u string) Option {
	return func(v *httpVerifier) {
		v.verifyURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(v *httpVerifier) {
		v.http = hc
	}
}

type httpVerifier struct {
	secretKey string
	verifyURL string
	http      *http.Client
}

// NewVerifier creates a Turnstile verifier.
func NewVerifier(secretKey string, opts ...Option) Verifier {
	v := &httpVerifier{
		secretKey: secretKey,
		verifyURL: defaultVerifyURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify checks a single-use token. A failed challenge and a transport
// failure are both errors; callers decide whether to reject or allow.
func (v *httpVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return eris.New("captcha: empty token")
	}

	form := url.Values{
		"secret":   {v.secretKey},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return eris.Wrap(err, "captcha: create request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "captcha: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "captcha: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("captcha: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result verifyResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return eris.Wrap(err, "captcha: unmarshal response")
	}
	if !result.Success {
		return eris.Errorf("captcha: challenge failed: %s", strings.Join(result.ErrorCodes, ", "))
	}
	return nil
}
