package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// ProviderOrder is the opaque handle a gateway returns for a pending charge.
// Amount units differ per provider: Razorpay reports minor units (paise),
// Cashfree the major unit.
type ProviderOrder struct {
	Provider  enums.PaymentMethod `json:"provider"`
	OrderID   string              `json:"order_id"`
	Amount    decimal.Decimal     `json:"amount"`
	Currency  enums.Currency      `json:"currency"`
	KeyID     string              `json:"key_id,omitempty"`
	SessionID string              `json:"payment_session_id,omitempty"`
}

// Proof is the client-submitted evidence that a provider charge completed.
// Razorpay needs all three fields; Cashfree only the order id.
type Proof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// CreateOrderInput carries everything a provider order needs. Customer
// fields are optional; providers that require them synthesize placeholders.
type CreateOrderInput struct {
	Amount        decimal.Decimal
	Currency      enums.Currency
	Reference     string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Gateway is one payment provider. Implementations must not perform network
// I/O at construction time.
type Gateway interface {
	Provider() enums.PaymentMethod
	CreateOrder(ctx context.Context, input CreateOrderInput) (*ProviderOrder, error)
	// Verify confirms a charge against provider state. A false return with
	// nil error means the proof was well-formed but did not check out.
	Verify(ctx context.Context, proof Proof, expectedAmount decimal.Decimal) (bool, error)
}
