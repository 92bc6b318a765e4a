package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
)

// Repository manages product stock counters and the movement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	UpdateProductStock(ctx context.Context, productID uuid.UUID, stock int) error
	UpdateVariationStock(ctx context.Context, variationID uuid.UUID, stock int) error
	CreateMovement(ctx context.Context, movement *models.InventoryMovement) error
	ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.InventoryMovement, bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").
		Where("id = ?", productID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) UpdateProductStock(ctx context.Context, productID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"stock": stock, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) UpdateVariationStock(ctx context.Context, variationID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("id = ?", variationID).
		Updates(map[string]any{"stock": stock, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.InventoryMovement, bool, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, false, err
	}

	q := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryMovement
	if err := q.Find(&rows).Error; err != nil {
		return nil, false, err
	}

	rows, hasMore := pagination.Trim(rows, params.Limit)
	return rows, hasMore, nil
}
