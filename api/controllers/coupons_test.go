package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	couponsvc "github.com/hardikpatel/shopkart-backend/internal/coupons"
	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

type fakeCouponService struct {
	validateFn func(code string, subtotal decimal.Decimal) (*couponsvc.Validation, error)
}

func (f *fakeCouponService) Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*couponsvc.Validation, error) {
	return f.validateFn(code, subtotal)
}

func (f *fakeCouponService) Redeem(ctx context.Context, code string) error { return nil }

func (f *fakeCouponService) WithTx(tx *gorm.DB) couponsvc.Service { return f }

func TestCouponValidateReturnsDiscount(t *testing.T) {
	svc := &fakeCouponService{
		validateFn: func(code string, subtotal decimal.Decimal) (*couponsvc.Validation, error) {
			require.Equal(t, "SAVE20", code)
			require.True(t, subtotal.Equal(decimal.RequireFromString("1000")))
			return &couponsvc.Validation{
				Coupon:   &models.Coupon{Code: "SAVE20"},
				Discount: decimal.RequireFromString("150"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/coupons/validate",
		strings.NewReader(`{"code":"SAVE20","subtotal":"1000"}`))
	w := httptest.NewRecorder()
	CouponValidate(svc, nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data couponValidateResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.Equal(t, "SAVE20", envelope.Data.Code)
	require.True(t, envelope.Data.Discount.Equal(decimal.RequireFromString("150")))
}

func TestCouponValidateRejectsBadSubtotal(t *testing.T) {
	svc := &fakeCouponService{validateFn: func(string, decimal.Decimal) (*couponsvc.Validation, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/coupons/validate",
		strings.NewReader(`{"code":"SAVE20","subtotal":"-5"}`))
	w := httptest.NewRecorder()
	CouponValidate(svc, nil)(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCouponValidateMapsNotFound(t *testing.T) {
	svc := &fakeCouponService{validateFn: func(string, decimal.Decimal) (*couponsvc.Validation, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/coupons/validate",
		strings.NewReader(`{"code":"NOPE","subtotal":"100"}`))
	w := httptest.NewRecorder()
	CouponValidate(svc, nil)(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.Equal(t, string(pkgerrors.CodeNotFound), envelope.Error.Code)
}
