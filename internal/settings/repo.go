package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
)

// Repository manages persistence for the store settings document.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, row *models.StoreSettings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the singleton settings row, or nil when none has been created yet.
func (r *repository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var row models.StoreSettings
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Save(ctx context.Context, row *models.StoreSettings) error {
	return r.db.WithContext(ctx).Save(row).Error
}
