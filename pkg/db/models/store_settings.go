package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// StoreSettings is the single configuration document read at the top of
// every checkout. Sections are jsonb so the admin console can evolve them
// without schema changes.
type StoreSettings struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Checkout      types.CheckoutSettings     `gorm:"column:checkout;type:jsonb;serializer:json"`
	Payments      types.PaymentSettings      `gorm:"column:payments;type:jsonb;serializer:json"`
	Shipping      types.ShippingSettings     `gorm:"column:shipping;type:jsonb;serializer:json"`
	Coupons       types.CouponSettings       `gorm:"column:coupons;type:jsonb;serializer:json"`
	Notifications types.NotificationSettings `gorm:"column:notifications;type:jsonb;serializer:json"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
