package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	couponsvc "github.com/hardikpatel/shopkart-backend/internal/coupons"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
)

type couponValidateRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=64"`
	Subtotal string `json:"subtotal" validate:"required"`
}

type couponValidateResponse struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// CouponValidate prices a coupon against the supplied subtotal without
// redeeming it. The authoritative application happens at checkout.
func CouponValidate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload couponValidateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subtotal, err := decimal.NewFromString(payload.Subtotal)
		if err != nil || subtotal.IsNegative() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be a non-negative decimal"))
			return
		}

		validation, err := svc.Validate(r.Context(), payload.Code, subtotal, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, couponValidateResponse{
			Code:     validation.Coupon.Code,
			Discount: validation.Discount,
		})
	}
}
