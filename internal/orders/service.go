package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/internal/carts"
	"github.com/hardikpatel/shopkart-backend/internal/coupons"
	"github.com/hardikpatel/shopkart-backend/internal/inventory"
	"github.com/hardikpatel/shopkart-backend/internal/notifications"
	"github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/internal/shipping"
	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the checkout orchestrator plus order reads.
type Service interface {
	// PlaceOrder runs the full checkout: config validation, cart pricing,
	// coupon application, shipping re-quote, payment verification, and one
	// transaction covering coupon redemption, stock deduction, order insert
	// and cart clear. The order_placed notification fires after commit.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	GetByID(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	settings   settings.Service
	carts      carts.Service
	coupons    coupons.Service
	shipping   shipping.Service
	inventory  inventory.Service
	payments   payments.Service
	dispatcher notifications.Dispatcher
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the checkout orchestrator. Every collaborator is
// required except the dispatcher, which may be nil when notifications are
// turned off entirely.
func NewService(
	repo Repository,
	tx txRunner,
	settingsSvc settings.Service,
	cartsSvc carts.Service,
	couponsSvc coupons.Service,
	shippingSvc shipping.Service,
	inventorySvc inventory.Service,
	paymentsSvc payments.Service,
	dispatcher notifications.Dispatcher,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if cartsSvc == nil {
		return nil, fmt.Errorf("carts service required")
	}
	if couponsSvc == nil {
		return nil, fmt.Errorf("coupons service required")
	}
	if shippingSvc == nil {
		return nil, fmt.Errorf("shipping service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if paymentsSvc == nil {
		return nil, fmt.Errorf("payments service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		settings:   settingsSvc,
		carts:      cartsSvc,
		coupons:    couponsSvc,
		shipping:   shippingSvc,
		inventory:  inventorySvc,
		payments:   paymentsSvc,
		dispatcher: dispatcher,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// pricedCart is the checkout view of a cart after dropping unavailable
// products.
type pricedCart struct {
	items     []models.OrderItem
	subtotal  decimal.Decimal
	itemCount int
	// deductions are the stock movements the order commit must apply
	deductions []inventory.AdjustInput
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	ctx = s.logg.WithUserID(ctx, input.UserID.String())

	// one settings snapshot for the whole attempt
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validateConfig(snap, input); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	priced, err := s.priceCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(priced.items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	// Coupon failure is soft: the order still places at full price.
	discount := decimal.Zero
	var couponCode *string
	var discountAmount *decimal.Decimal
	if input.CouponCode != "" && snap.Coupons.Enabled {
		validation, err := s.coupons.Validate(ctx, input.CouponCode, priced.subtotal, s.now())
		switch {
		case err == nil:
			discount = validation.Discount
			code := validation.Coupon.Code
			couponCode = &code
			discountAmount = &discount
		case isBusinessError(err):
			s.logg.Info(ctx, fmt.Sprintf("coupon %q ignored: %s", input.CouponCode, err))
		default:
			return nil, err
		}
	}

	shippingAmount := decimal.Zero
	var shippingMethod *string
	if snap.Shipping.Enabled && input.ShippingMethodID != nil {
		// never trust the client-echoed amount; re-quote against the zone table
		option, err := s.shipping.QuoteMethod(ctx, *input.ShippingMethodID, shipping.Destination{
			Country: input.ShippingAddress.Country,
			State:   input.ShippingAddress.State,
			Zip:     input.ShippingAddress.Zip,
		}, priced.subtotal, priced.itemCount)
		if err != nil {
			return nil, err
		}
		if option == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected shipping method is not available for this address")
		}
		shippingAmount = option.Amount
		shippingMethod = &option.Name
	}

	taxAmount := decimal.Zero
	if snap.Shipping.TaxRatePct.IsPositive() {
		taxAmount = priced.subtotal.Sub(discount).
			Mul(snap.Shipping.TaxRatePct).
			Div(decimal.NewFromInt(100)).
			Round(2)
		if taxAmount.IsNegative() {
			taxAmount = decimal.Zero
		}
	}

	total := priced.subtotal.Sub(discount).Add(taxAmount).Add(shippingAmount).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Items:           priced.items,
		Subtotal:        priced.subtotal,
		CouponCode:      couponCode,
		DiscountAmount:  discountAmount,
		TaxAmount:       taxAmount,
		ShippingAmount:  shippingAmount,
		ShippingMethod:  shippingMethod,
		Total:           total,
		ShippingAddress: input.ShippingAddress,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
	}

	if input.PaymentMethod.IsOnline() {
		if err := s.verifyPayment(ctx, input, order, total); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if couponCode != nil {
			if err := s.coupons.WithTx(tx).Redeem(ctx, *couponCode); err != nil {
				return err
			}
		}
		txInventory := s.inventory.WithTx(tx)
		for _, deduction := range priced.deductions {
			deduction.ReferenceOrderID = &order.ID
			if _, err := txInventory.Adjust(ctx, deduction); err != nil {
				return err
			}
		}
		return s.carts.WithTx(tx).Clear(ctx, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrderPlaced(ctx, order)

	return order, nil
}

// validateConfig checks the requested payment method against the enabled
// set and collects every missing required address field into one error.
func (s *service) validateConfig(snap *settings.Snapshot, input PlaceOrderInput) error {
	enabled := false
	switch input.PaymentMethod {
	case enums.PaymentMethodCOD:
		enabled = snap.Payments.CODEnabled
	case enums.PaymentMethodRazorpay:
		enabled = snap.Payments.Razorpay.Enabled
	case enums.PaymentMethodCashfree:
		enabled = snap.Payments.Cashfree.Enabled
	}
	if !enabled {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("payment method %q is not enabled", input.PaymentMethod))
	}

	var missing []string
	for _, field := range snap.Checkout.Fields {
		if !field.Enabled || !field.Required {
			continue
		}
		if strings.TrimSpace(input.ShippingAddress.Field(field.Name)) == "" {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "required shipping fields are missing").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return nil
}

// priceCart builds the denormalized order lines. Items whose product is
// gone or inactive are dropped, not failed.
func (s *service) priceCart(ctx context.Context, cart *models.Cart) (*pricedCart, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	priced := &pricedCart{subtotal: decimal.Zero}
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			continue
		}

		name := product.Name
		unitPrice := product.Price
		managed := product.InventoryManaged

		if item.VariationSKU != nil {
			variation := findVariation(product, *item.VariationSKU)
			if variation == nil {
				continue
			}
			name = product.Name + " (" + variation.Name + ")"
			unitPrice = variation.Price
			managed = variation.InventoryManaged
		}
		// an effective price captured at add time wins over the catalog price
		if item.Price != nil {
			unitPrice = *item.Price
		}

		priced.items = append(priced.items, models.OrderItem{
			ID:           uuid.New(),
			ProductID:    product.ID,
			VariationSKU: item.VariationSKU,
			Name:         name,
			UnitPrice:    unitPrice,
			Quantity:     item.Quantity,
		})
		priced.subtotal = priced.subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		priced.itemCount += item.Quantity

		if managed {
			priced.deductions = append(priced.deductions, inventory.AdjustInput{
				ProductID:     product.ID,
				VariationSKU:  item.VariationSKU,
				QuantityDelta: -item.Quantity,
				Type:          enums.MovementTypeOut,
				Reason:        "order placed",
			})
		}
	}
	priced.subtotal = priced.subtotal.Round(2)
	return priced, nil
}

func (s *service) verifyPayment(ctx context.Context, input PlaceOrderInput, order *models.Order, total decimal.Decimal) error {
	if input.PaymentProof == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment proof is required for online payment methods")
	}

	valid, err := s.payments.Verify(ctx, input.PaymentMethod, *input.PaymentProof, total)
	if err != nil {
		return err
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeGateway, "payment verification failed")
	}

	if input.PaymentProof.OrderID != "" {
		providerOrderID := input.PaymentProof.OrderID
		order.PaymentOrderID = &providerOrderID
	}
	if input.PaymentProof.PaymentID != "" {
		paymentID := input.PaymentProof.PaymentID
		order.PaymentID = &paymentID
	}
	return nil
}

func (s *service) notifyOrderPlaced(ctx context.Context, order *models.Order) {
	if s.dispatcher == nil {
		return
	}

	user, err := s.repo.FindUser(ctx, order.UserID)
	if err != nil || user == nil {
		s.logg.Warn(ctx, "order_placed notification skipped: user lookup failed")
		return
	}

	phone := ""
	if user.Phone != nil {
		phone = *user.Phone
	}
	s.dispatcher.Dispatch(ctx, notifications.Input{
		Type:           enums.NotificationTypeOrderPlaced,
		RecipientEmail: user.Email,
		RecipientPhone: phone,
		Data: map[string]string{
			"name":     user.Name,
			"order_id": order.ID.String(),
			"total":    order.Total.StringFixed(2),
		},
	})
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}

	rows, hasMore, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	cursor := ""
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) GetByID(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (userID != uuid.Nil && order.UserID != userID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// isBusinessError separates coupon rule failures (soft, order proceeds)
// from infrastructure failures (hard, abort).
func isBusinessError(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeValidation) ||
		pkgerrors.HasCode(err, pkgerrors.CodeNotFound) ||
		pkgerrors.HasCode(err, pkgerrors.CodeConflict)
}

func findVariation(product *models.Product, sku string) *models.ProductVariation {
	for i := range product.Variations {
		if strings.EqualFold(product.Variations[i].SKU, sku) {
			return &product.Variations[i]
		}
	}
	return nil
}
