package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/config"
)

// PaystackService handles payment gateway integration with Paystack.
// The service never charges on its own; it initializes transactions,
// verifies them and authenticates webhook deliveries.
type PaystackService struct {
	config config.PaystackConfig
	logger *logrus.Logger
	client *http.Client
}

// PaystackInitRequest is the transaction initialization payload.
// Amount is in the currency subunit (kobo for NGN).
type PaystackInitRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Currency  string `json:"currency,omitempty"`
}

// PaystackInitData is the useful part of the initialization response
type PaystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackVerifyData is the useful part of the verification response
type PaystackVerifyData struct {
	Status    string `json:"status"` // "success", "failed", "abandoned"
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// PaystackWebhookEvent is the webhook envelope delivered by Paystack
type PaystackWebhookEvent struct {
	Event string             `json:"event"` // "charge.success", "charge.failed", ...
	Data  PaystackVerifyData `json:"data"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewPaystackService creates a new PaystackService
func NewPaystackService(cfg config.PaystackConfig, logger *logrus.Logger) *PaystackService {
	return &PaystackService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// InitializeTransaction creates a Paystack transaction and returns the
// hosted payment page details. The booking reference doubles as the charge
// reference so later webhooks and verifies resolve to the booking.
func (s *PaystackService) InitializeTransaction(req PaystackInitRequest) (*PaystackInitData, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode init request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.config.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	var data PaystackInitData
	if err := s.do(httpReq, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// VerifyTransaction fetches the gateway-side status of a charge
func (s *PaystackService) VerifyTransaction(reference string) (*PaystackVerifyData, error) {
	httpReq, err := http.NewRequest(http.MethodGet, s.config.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.SecretKey)

	var data PaystackVerifyData
	if err := s.do(httpReq, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// ValidateWebhookSignature checks the x-paystack-signature header:
// HMAC-SHA512 of the raw body keyed with the secret key, hex encoded.
func (s *PaystackService) ValidateWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.config.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *PaystackService) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read paystack response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Status {
		s.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"message":     envelope.Message,
		}).Warn("Paystack API error")
		return fmt.Errorf("paystack error: %s", envelope.Message)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode paystack data: %w", err)
		}
	}

	return nil
}
