package shipping

import (
	"context"

	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
)

// Repository loads shipping zones and their methods.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// ListActiveZones returns active zones with their active methods
	// preloaded, ordered by ascending sort_order.
	ListActiveZones(ctx context.Context) ([]models.ShippingZone, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shipping repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActiveZones(ctx context.Context) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Preload("Methods", "is_active = ?", true).
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}
