package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single active cart owned by a user. RecoveryEmailSentAt marks
// that an abandoned-cart notification went out for the current contents.
type Cart struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	RecoveryEmailSentAt *time.Time `gorm:"column:recovery_email_sent_at"`
	Items               []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem references a product (optionally one of its variations) and an
// optional effective price captured when the item was added.
type CartItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID        `gorm:"column:cart_id;type:uuid;not null"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	VariationSKU *string          `gorm:"column:variation_sku"`
	Quantity     int              `gorm:"column:quantity;not null"`
	Price        *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
