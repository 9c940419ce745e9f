package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)

	assert.True(t, VerifySignature("sk_test_secret", body, sign("sk_test_secret", body)))
	assert.False(t, VerifySignature("sk_test_secret", body, sign("other_secret", body)))
	assert.False(t, VerifySignature("sk_test_secret", body, ""))
	assert.False(t, VerifySignature("sk_test_secret", []byte("tampered"), sign("sk_test_secret", body)))
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{
		"event": "charge.success",
		"data": {
			"reference": "ref_123",
			"status": "success",
			"amount": 500000,
			"currency": "NGN",
			"customer": {"email": "user@example.com"},
			"metadata": {"user_id": "u-1"}
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, EventChargeSuccess, ev.Event)
	assert.Equal(t, "ref_123", ev.Data.Reference)
	assert.Equal(t, "u-1", ev.Data.Metadata.UserID)
	assert.Equal(t, int64(500000), ev.Data.Amount)
}

func TestParseEventInvalid(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {"reference": "ref_123", "status": "success", "metadata": {"user_id": "u-1"}}
		}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_secret", WithBaseURL(srv.URL))
	tx, err := c.VerifyTransaction(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.Equal(t, "success", tx.Status)
	assert.Equal(t, "u-1", tx.Metadata.UserID)
}

func TestVerifyTransactionFailures(t *testing.T) {
	t.Run("empty reference", func(t *testing.T) {
		c := NewClient("sk_test_secret")
		_, err := c.VerifyTransaction(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("api status false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status": false, "message": "Transaction not found"}`))
		}))
		defer srv.Close()

		c := NewClient("sk_test_secret", WithBaseURL(srv.URL))
		_, err := c.VerifyTransaction(context.Background(), "missing")
		assert.ErrorContains(t, err, "Transaction not found")
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient("sk_test_secret", WithBaseURL(srv.URL))
		_, err := c.VerifyTransaction(context.Background(), "ref_123")
		assert.ErrorContains(t, err, "status 401")
	})
}
