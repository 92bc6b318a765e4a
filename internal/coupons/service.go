package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Validation is the outcome of a successful coupon check: the coupon row and
// the discount it grants against the given subtotal.
type Validation struct {
	Coupon   *models.Coupon
	Discount decimal.Decimal
}

// Service validates coupon codes and records redemptions.
type Service interface {
	// Validate checks a code against its activity window, usage limit and
	// minimum order amount, then computes the discount for subtotal.
	Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*Validation, error)
	// Redeem increments the coupon's usage counter. Called once per order
	// that applied the coupon.
	Redeem(ctx context.Context, code string) error
	WithTx(tx *gorm.DB) Service
}

type service struct {
	repo Repository
}

// NewService wires a coupon service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*Validation, error) {
	if Canonical(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}

	// Rules are checked in a fixed order so the caller always sees the
	// earliest failure.
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not yet active")
	}
	if coupon.EndDate != nil && now.After(*coupon.EndDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}
	if coupon.MinOrderAmount.IsPositive() && subtotal.LessThan(coupon.MinOrderAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order subtotal is below the coupon minimum of %s", coupon.MinOrderAmount.StringFixed(2)))
	}

	return &Validation{
		Coupon:   coupon,
		Discount: ComputeDiscount(coupon, subtotal),
	}, nil
}

func (s *service) Redeem(ctx context.Context, code string) error {
	return s.repo.IncrementUsage(ctx, code)
}

// ComputeDiscount applies the coupon's discount rule to subtotal. The result
// is clamped to [0, subtotal] and rounded to 2 decimal places, half away
// from zero.
func ComputeDiscount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountValue).Div(hundred)
		if coupon.MaxDiscount.IsPositive() && discount.GreaterThan(coupon.MaxDiscount) {
			discount = coupon.MaxDiscount
		}
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount.Round(2)
}
