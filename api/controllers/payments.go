package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/api/middleware"
	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	paymentsvc "github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
)

type createPaymentOrderRequest struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency"`
}

// PaymentCreateOrder opens a provider-side order so the storefront can start
// an online payment. The amount here only seeds the provider widget; checkout
// re-verifies the captured payment against the server-computed total.
func PaymentCreateOrder(svc paymentsvc.Service, method enums.PaymentMethod, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		var payload createPaymentOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(payload.Amount)
		if err != nil || !amount.IsPositive() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive decimal"))
			return
		}

		// Empty currency is allowed; the gateway falls back to INR.
		currency := enums.Currency(payload.Currency)
		if payload.Currency != "" && !currency.IsValid() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency"))
			return
		}

		order, err := svc.CreateOrder(r.Context(), method, paymentsvc.CreateOrderInput{
			Amount:        amount,
			Currency:      currency,
			Reference:     fmt.Sprintf("ord_%s", uuid.NewString()),
			CustomerID:    userID.String(),
			CustomerEmail: middleware.EmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
