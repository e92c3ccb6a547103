package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/booking-backend/internal/config"
)

func newPaystackService(baseURL string) *PaystackService {
	return NewPaystackService(config.PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   baseURL,
	}, testLogger())
}

func TestInitializeTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": true,
				"message": "Authorization URL created",
				"data": {
					"authorization_url": "https://checkout.paystack.com/abc123",
					"access_code": "abc123",
					"reference": "BK-20250601-A1B2C3"
				}
			}`))
		}))
		defer server.Close()

		svc := newPaystackService(server.URL)

		data, err := svc.InitializeTransaction(PaystackInitRequest{
			Email:     "ada@example.com",
			Amount:    1300000,
			Reference: "BK-20250601-A1B2C3",
			Currency:  "NGN",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/abc123", data.AuthorizationURL)
		assert.Equal(t, "BK-20250601-A1B2C3", data.Reference)
	})

	t.Run("Gateway Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status": false, "message": "Invalid amount"}`))
		}))
		defer server.Close()

		svc := newPaystackService(server.URL)

		_, err := svc.InitializeTransaction(PaystackInitRequest{Reference: "BK-20250601-A1B2C3"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid amount")
	})
}

func TestVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/BK-20250601-A1B2C3", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "BK-20250601-A1B2C3",
				"amount": 1300000,
				"currency": "NGN"
			}
		}`))
	}))
	defer server.Close()

	svc := newPaystackService(server.URL)

	data, err := svc.VerifyTransaction("BK-20250601-A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, "success", data.Status)
	assert.Equal(t, int64(1300000), data.Amount)
}

func TestValidateWebhookSignature(t *testing.T) {
	svc := newPaystackService("https://api.paystack.co")

	body := []byte(`{"event":"charge.success","data":{"reference":"BK-20250601-A1B2C3"}}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.ValidateWebhookSignature(body, valid))
	assert.False(t, svc.ValidateWebhookSignature(body, "deadbeef"))
	assert.False(t, svc.ValidateWebhookSignature([]byte(`tampered`), valid))
	assert.False(t, svc.ValidateWebhookSignature(body, ""))
}
