package carts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
)

// Repository manages cart rows and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	UpsertItem(ctx context.Context, item *models.CartItem) error
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	MarkRecoveryEmailSent(ctx context.Context, cartID uuid.UUID, at time.Time) error
	// ListAbandoned returns non-empty carts untouched since the cutoff that
	// have not yet received a recovery notification.
	ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]models.Cart, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// UpsertItem merges by (cart_id, product_id, variation_sku): an existing row
// gets the new quantity and price, otherwise the row is inserted.
func (r *repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	var existing models.CartItem
	q := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID)
	if item.VariationSKU != nil {
		q = q.Where("variation_sku = ?", *item.VariationSKU)
	} else {
		q = q.Where("variation_sku IS NULL")
	}

	err := q.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(item).Error
	}
	if err != nil {
		return err
	}

	existing.Quantity = item.Quantity
	existing.Price = item.Price
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return err
	}
	*item = existing
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) MarkRecoveryEmailSent(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("recovery_email_sent_at", at).Error
}

func (r *repository) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]models.Cart, error) {
	var carts []models.Cart
	q := r.db.WithContext(ctx).
		Preload("Items").
		Where("updated_at < ?", cutoff).
		Where("recovery_email_sent_at IS NULL").
		Where("EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}
