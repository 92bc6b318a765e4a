package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Stock is the materialized balance of
// the inventory ledger when InventoryManaged is set.
type Product struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string             `gorm:"column:name;not null"`
	SKU              string             `gorm:"column:sku;not null"`
	Price            decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Stock            int                `gorm:"column:stock;not null;default:0"`
	InventoryManaged bool               `gorm:"column:inventory_managed;not null;default:false"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	Variations       []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariation is a purchasable variant with its own SKU and stock counter.
type ProductVariation struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name             string          `gorm:"column:name;not null"`
	SKU              string          `gorm:"column:sku;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock            int             `gorm:"column:stock;not null;default:0"`
	InventoryManaged bool            `gorm:"column:inventory_managed;not null;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
