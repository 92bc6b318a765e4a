package settings

import (
	"context"
	"fmt"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// Snapshot is a point-in-time copy of the store configuration. Checkout reads
// one snapshot at the top of the request and never re-reads mid-flow.
type Snapshot struct {
	Checkout      types.CheckoutSettings
	Payments      types.PaymentSettings
	Shipping      types.ShippingSettings
	Coupons       types.CouponSettings
	Notifications types.NotificationSettings
}

// Service exposes the store settings document.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*Snapshot, error)
}

type service struct {
	repo Repository
}

// NewService wires a settings service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateSettingsInput replaces individual sections. Nil sections are left unchanged.
type UpdateSettingsInput struct {
	Checkout      *types.CheckoutSettings     `json:"checkout"`
	Payments      *types.PaymentSettings      `json:"payments"`
	Shipping      *types.ShippingSettings     `json:"shipping"`
	Coupons       *types.CouponSettings       `json:"coupons"`
	Notifications *types.NotificationSettings `json:"notifications"`
}

// defaultCheckout enables the standard address fields; only name, address and
// phone start out required.
func defaultCheckout() types.CheckoutSettings {
	required := map[string]bool{"name": true, "address": true, "phone": true}
	fields := make([]types.CheckoutField, 0, 7)
	for _, name := range []string{"name", "address", "city", "state", "zip", "phone", "country"} {
		fields = append(fields, types.CheckoutField{
			Name:     name,
			Enabled:  true,
			Required: required[name],
		})
	}
	return types.CheckoutSettings{Fields: fields}
}

func defaults() Snapshot {
	return Snapshot{
		Checkout: defaultCheckout(),
		Payments: types.PaymentSettings{CODEnabled: true},
		Shipping: types.ShippingSettings{Enabled: true},
		Coupons:  types.CouponSettings{Enabled: true},
	}
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		snap := defaults()
		return &snap, nil
	}

	snap := Snapshot{
		Checkout:      row.Checkout,
		Payments:      row.Payments,
		Shipping:      row.Shipping,
		Coupons:       row.Coupons,
		Notifications: row.Notifications,
	}
	if len(snap.Checkout.Fields) == 0 {
		snap.Checkout = defaultCheckout()
	}
	return &snap, nil
}

func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*Snapshot, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		def := defaults()
		row = &models.StoreSettings{
			Checkout: def.Checkout,
			Payments: def.Payments,
			Shipping: def.Shipping,
			Coupons:  def.Coupons,
		}
	}

	if input.Checkout != nil {
		row.Checkout = *input.Checkout
	}
	if input.Payments != nil {
		row.Payments = *input.Payments
	}
	if input.Shipping != nil {
		row.Shipping = *input.Shipping
	}
	if input.Coupons != nil {
		row.Coupons = *input.Coupons
	}
	if input.Notifications != nil {
		row.Notifications = *input.Notifications
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}

	return &Snapshot{
		Checkout:      row.Checkout,
		Payments:      row.Payments,
		Shipping:      row.Shipping,
		Coupons:       row.Coupons,
		Notifications: row.Notifications,
	}, nil
}
