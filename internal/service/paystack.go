package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// PaystackProvider implements PaymentProvider against the Paystack REST API.
type PaystackProvider struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackProvider creates a PaystackProvider with a request timeout.
func NewPaystackProvider(secretKey, baseURL string) *PaystackProvider {
	if baseURL == "" {
		baseURL = defaultPaystackBaseURL
	}
	return &PaystackProvider{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize opens a hosted checkout session.
func (p *PaystackProvider) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	payload := map[string]interface{}{
		"email":     req.Email,
		"amount":    minorUnits(req.Amount),
		"currency":  req.Currency,
		"reference": req.Reference,
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := p.post(ctx, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}

	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the provider's final word on a charge.
func (p *PaystackProvider) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var data struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	}
	if err := p.get(ctx, "/transaction/verify/"+reference, &data); err != nil {
		return nil, err
	}

	return &VerifyResult{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    decimal.NewFromInt(data.Amount).Div(decimal.NewFromInt(100)),
		Currency:  data.Currency,
	}, nil
}

// Transfer pushes a payout to a transfer recipient.
func (p *PaystackProvider) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	payload := map[string]interface{}{
		"source":    "balance",
		"amount":    minorUnits(req.Amount),
		"currency":  req.Currency,
		"reference": req.Reference,
		"recipient": req.Recipient,
		"reason":    req.Reason,
	}

	var data struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := p.post(ctx, "/transfer", payload, &data); err != nil {
		return nil, err
	}

	return &TransferResult{Reference: data.Reference, Status: data.Status}, nil
}

func (p *PaystackProvider) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *PaystackProvider) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return err
	}
	return p.do(req, out)
}

func (p *PaystackProvider) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("paystack: decoding %s response: %w", req.URL.Path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !envelope.Status {
		return fmt.Errorf("paystack: %s returned %d: %s", req.URL.Path, resp.StatusCode, envelope.Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

// minorUnits converts a major-unit amount to the provider's integer minor
// units (kobo, cents).
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
