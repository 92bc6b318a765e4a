package coupons

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
)

// Repository manages persistence for coupons. Codes are canonicalized to
// upper-case before every lookup so matching is case-insensitive.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
	List(ctx context.Context, limit int) ([]models.Coupon, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a coupon repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Canonical returns the storage form of a coupon code.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *repository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = Canonical(coupon.Code)
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", Canonical(code)).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsage bumps used_count with a single UPDATE so concurrent
// redemptions never lose increments.
func (r *repository) IncrementUsage(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ?", Canonical(code)).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error
}

func (r *repository) List(ctx context.Context, limit int) ([]models.Coupon, error) {
	var coupons []models.Coupon
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}
