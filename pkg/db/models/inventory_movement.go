package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// InventoryMovement is one immutable ledger entry. Rows are append-only;
// PreviousStock/NewStock must bracket exactly one stock mutation.
type InventoryMovement struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index:idx_inventory_movements_product,priority:1"`
	VariationSKU     *string            `gorm:"column:variation_sku"`
	Quantity         int                `gorm:"column:quantity;not null"`
	Type             enums.MovementType `gorm:"column:type;type:text;not null"`
	Reason           string             `gorm:"column:reason;not null"`
	PreviousStock    int                `gorm:"column:previous_stock;not null"`
	NewStock         int                `gorm:"column:new_stock;not null"`
	ReferenceOrderID *uuid.UUID         `gorm:"column:reference_order_id;type:uuid"`
	Notes            *string            `gorm:"column:notes"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime;index:idx_inventory_movements_product,priority:2,sort:desc"`
}
