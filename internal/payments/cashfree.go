package payments

import (
	"bytes"
	"context"
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
	cashfreeSandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	cashfreeProductionBaseURL = "https://api.cashfree.com/pg"
	cashfreeAPIVersion        = "2023-08-01"

	// orderIDPlaceholder must appear in the configured return URL so the
	// provider can substitute the order id on redirect.
	orderIDPlaceholder = "{order_id}"
)

// CashfreeGateway talks to the Cashfree PG API. Amounts are submitted in
// the major currency unit, unconverted.
type CashfreeGateway struct {
	appID      string
	secretKey  string
	returnURL  string
	notifyURL  string
	fallback   cashfreeCustomerFallback
	baseURL    string
	httpClient *http.Client
}

type cashfreeCustomerFallback struct {
	phone string
}

// NewCashfreeGateway builds a gateway from store settings. The return URL
// must carry the {order_id} placeholder.
func NewCashfreeGateway(cfg types.CashfreeSettings) (*CashfreeGateway, error) {
	if strings.TrimSpace(cfg.AppID) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "cashfree credentials are not configured")
	}
	returnURL := strings.TrimSpace(cfg.ReturnURL)
	if returnURL == "" || !strings.Contains(returnURL, orderIDPlaceholder) {
		return nil, pkgerrors.New(pkgerrors.CodeGateway,
			fmt.Sprintf("cashfree return url must contain the %s placeholder", orderIDPlaceholder))
	}

	baseURL := cashfreeProductionBaseURL
	if cfg.Sandbox {
		baseURL = cashfreeSandboxBaseURL
	}

	return &CashfreeGateway{
		appID:      strings.TrimSpace(cfg.AppID),
		secretKey:  strings.TrimSpace(cfg.SecretKey),
		returnURL:  returnURL,
		notifyURL:  strings.TrimSpace(cfg.NotifyURL),
		fallback:   cashfreeCustomerFallback{phone: strings.TrimSpace(cfg.DefaultPhone)},
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *CashfreeGateway) Provider() enums.PaymentMethod {
	return enums.PaymentMethodCashfree
}

type cashfreeCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type cashfreeOrderMeta struct {
	ReturnURL string `json:"return_url"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type cashfreeOrderRequest struct {
	OrderID         string            `json:"order_id"`
	OrderAmount     decimal.Decimal   `json:"order_amount"`
	OrderCurrency   string            `json:"order_currency"`
	CustomerDetails cashfreeCustomer  `json:"customer_details"`
	OrderMeta       cashfreeOrderMeta `json:"order_meta"`
}

type cashfreeOrderResponse struct {
	OrderID          string          `json:"order_id"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	OrderStatus      string          `json:"order_status"`
	PaymentSessionID string          `json:"payment_session_id"`
}

type cashfreeErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (g *CashfreeGateway) CreateOrder(ctx context.Context, input CreateOrderInput) (*ProviderOrder, error) {
	if strings.TrimSpace(input.Reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashfree requires a caller-chosen order id")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyINR
	}

	body, err := json.Marshal(cashfreeOrderRequest{
		OrderID:         input.Reference,
		OrderAmount:     input.Amount,
		OrderCurrency:   string(currency),
		CustomerDetails: g.customerDetails(input),
		OrderMeta: cashfreeOrderMeta{
			ReturnURL: g.returnURL,
			NotifyURL: g.notifyURL,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cashfree order request")
	}

	var resp cashfreeOrderResponse
	if err := g.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}

	return &ProviderOrder{
		Provider:  enums.PaymentMethodCashfree,
		OrderID:   resp.OrderID,
		Amount:    resp.OrderAmount,
		Currency:  currency,
		SessionID: resp.PaymentSessionID,
	}, nil
}

// Verify re-fetches the order by id; status paid or active counts as a
// completed charge.
func (g *CashfreeGateway) Verify(ctx context.Context, proof Proof, expectedAmount decimal.Decimal) (bool, error) {
	if strings.TrimSpace(proof.OrderID) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "cashfree proof requires an order id")
	}

	var order cashfreeOrderResponse
	if err := g.do(ctx, http.MethodGet, "/orders/"+proof.OrderID, nil, &order); err != nil {
		return false, err
	}

	status := strings.ToLower(order.OrderStatus)
	if status != "paid" && status != "active" {
		return false, nil
	}
	if expectedAmount.IsPositive() && !order.OrderAmount.Equal(expectedAmount) {
		return false, nil
	}
	return true, nil
}

// customerDetails fills provider-required identity fields, synthesizing
// placeholders when the caller has none.
func (g *CashfreeGateway) customerDetails(input CreateOrderInput) cashfreeCustomer {
	customer := cashfreeCustomer{
		CustomerID:    strings.TrimSpace(input.CustomerID),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
	}
	if customer.CustomerID == "" {
		customer.CustomerID = "guest_" + input.Reference
	}
	if customer.CustomerEmail == "" {
		customer.CustomerEmail = customer.CustomerID + "@example.invalid"
	}
	if customer.CustomerPhone == "" {
		customer.CustomerPhone = g.fallback.phone
	}
	if customer.CustomerPhone == "" {
		customer.CustomerPhone = "9999999999"
	}
	return customer
}

func (g *CashfreeGateway) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cashfree request")
	}
	req.Header.Set("x-client-id", g.appID)
	req.Header.Set("x-client-secret", g.secretKey)
	req.Header.Set("x-api-version", cashfreeAPIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "cashfree request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "reading cashfree response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var providerErr cashfreeErrorResponse
		_ = json.Unmarshal(payload, &providerErr)
		return pkgerrors.New(pkgerrors.CodeGateway,
			fmt.Sprintf("cashfree returned %d: %s", resp.StatusCode, providerErr.Message))
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decoding cashfree response")
		}
	}
	return nil
}
