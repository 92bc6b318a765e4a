package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// Order is the immutable snapshot produced by checkout. Item names and unit
// prices are denormalized copies, independent of later product edits.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CouponCode      *string             `gorm:"column:coupon_code"`
	DiscountAmount  *decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2)"`
	TaxAmount       decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount  decimal.Decimal     `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	ShippingMethod  *string             `gorm:"column:shipping_method"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentOrderID  *string             `gorm:"column:payment_order_id"`
	PaymentID       *string             `gorm:"column:payment_id"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariationSKU *string         `gorm:"column:variation_sku"`
	Name         string          `gorm:"column:name;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
