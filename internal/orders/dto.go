package orders

import (
	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// PlaceOrderInput is everything a checkout submission carries. The shipping
// method and payment proof reference quotes and provider orders obtained
// earlier in the flow; both are re-verified server side before commit.
type PlaceOrderInput struct {
	UserID           uuid.UUID
	ShippingAddress  types.Address
	PaymentMethod    enums.PaymentMethod
	CouponCode       string
	ShippingMethodID *uuid.UUID
	PaymentProof     *payments.Proof
}

// ListResult wraps one page of orders and the cursor for the next.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}
