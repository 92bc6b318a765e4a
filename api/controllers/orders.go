package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/api/middleware"
	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	ordersvc "github.com/hardikpatel/shopkart-backend/internal/orders"
	"github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

type placeOrderRequest struct {
	ShippingAddress  types.Address        `json:"shipping_address" validate:"required"`
	PaymentMethod    string               `json:"payment_method" validate:"required,oneof=cod razorpay cashfree"`
	CouponCode       string               `json:"coupon_code"`
	ShippingMethodID *uuid.UUID           `json:"shipping_method_id"`
	PaymentProof     *paymentProofPayload `json:"payment_proof"`
}

// paymentProofPayload only requires the provider order id; each gateway's
// Verify enforces the rest of its own proof shape.
type paymentProofPayload struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// OrderPlace runs checkout for the authenticated user's cart.
func OrderPlace(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.PlaceOrderInput{
			UserID:           userID,
			ShippingAddress:  payload.ShippingAddress,
			PaymentMethod:    enums.PaymentMethod(payload.PaymentMethod),
			CouponCode:       payload.CouponCode,
			ShippingMethodID: payload.ShippingMethodID,
		}
		if payload.PaymentProof != nil {
			input.PaymentProof = &payments.Proof{
				OrderID:   payload.PaymentProof.OrderID,
				PaymentID: payload.PaymentProof.PaymentID,
				Signature: payload.PaymentProof.Signature,
			}
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderList returns the user's orders newest first with cursor pagination.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListByUser(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderGet returns one of the user's orders by id.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
