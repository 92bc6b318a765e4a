package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

const (
	razorpayBaseURL = "https://api.razorpay.com/v1"

	// razorpayMinAmountPaise is the provider's minimum order value in
	// minor units.
	razorpayMinAmountPaise = 100
)

// RazorpayGateway talks to the Razorpay Orders API. Amounts are converted
// to paise (x100) before submission.
type RazorpayGateway struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayGateway builds a gateway from store settings. Construction
// validates credentials but performs no network call.
func NewRazorpayGateway(cfg types.RazorpaySettings) (*RazorpayGateway, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "razorpay credentials are not configured")
	}
	return &RazorpayGateway{
		keyID:      strings.TrimSpace(cfg.KeyID),
		keySecret:  strings.TrimSpace(cfg.KeySecret),
		baseURL:    razorpayBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *RazorpayGateway) Provider() enums.PaymentMethod {
	return enums.PaymentMethodRazorpay
}

// KeyID is exposed so checkout pages can initialize the provider widget.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// MinorUnits converts a major-unit amount to paise, rounded to the nearest
// whole unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, input CreateOrderInput) (*ProviderOrder, error) {
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyINR
	}

	paise := MinorUnits(input.Amount)
	if paise < razorpayMinAmountPaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order amount must be at least %d paise", razorpayMinAmountPaise))
	}

	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   paise,
		Currency: string(currency),
		Receipt:  input.Reference,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding razorpay order request")
	}

	var resp razorpayOrderResponse
	if err := g.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}

	return &ProviderOrder{
		Provider: enums.PaymentMethodRazorpay,
		OrderID:  resp.ID,
		Amount:   decimal.NewFromInt(resp.Amount),
		Currency: currency,
		KeyID:    g.keyID,
	}, nil
}

// Verify recomputes the checkout signature and, when an expected amount is
// given, re-fetches the provider order to confirm the charged amount.
func (g *RazorpayGateway) Verify(ctx context.Context, proof Proof, expectedAmount decimal.Decimal) (bool, error) {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "razorpay proof requires order id, payment id and signature")
	}

	if !g.signatureValid(proof) {
		return false, nil
	}

	if expectedAmount.IsPositive() {
		var order razorpayOrderResponse
		if err := g.do(ctx, http.MethodGet, "/orders/"+proof.OrderID, nil, &order); err != nil {
			return false, err
		}
		if order.Amount != MinorUnits(expectedAmount) {
			return false, nil
		}
	}

	return true, nil
}

// signatureValid checks the HMAC-SHA256 of "{orderID}|{paymentID}" in
// constant time.
func (g *RazorpayGateway) signatureValid(proof Proof) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(proof.OrderID + "|" + proof.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(proof.Signature))))
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building razorpay request")
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "razorpay request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "reading razorpay response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var providerErr razorpayErrorResponse
		_ = json.Unmarshal(payload, &providerErr)
		return pkgerrors.New(pkgerrors.CodeGateway,
			fmt.Sprintf("razorpay returned %d: %s", resp.StatusCode, providerErr.Error.Description))
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decoding razorpay response")
		}
	}
	return nil
}
