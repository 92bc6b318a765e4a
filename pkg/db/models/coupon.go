package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// Coupon is a redeemable discount code. Code is stored in canonical
// upper-case and matched case-insensitively.
type Coupon struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue  decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderAmount decimal.Decimal    `gorm:"column:min_order_amount;type:numeric(12,2);not null;default:0"`
	MaxDiscount    decimal.Decimal    `gorm:"column:max_discount;type:numeric(12,2);not null;default:0"`
	UsageLimit     int                `gorm:"column:usage_limit;not null;default:0"`
	UsedCount      int                `gorm:"column:used_count;not null;default:0"`
	StartDate      *time.Time         `gorm:"column:start_date"`
	EndDate        *time.Time         `gorm:"column:end_date"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
