package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/api/middleware"
	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	cartsvc "github.com/hardikpatel/shopkart-backend/internal/carts"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
)

// CartGet returns the authenticated user's cart, creating it on first use.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		cart, err := svc.GetOrCreate(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type cartSetItemRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	VariationSKU *string   `json:"variation_sku"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
}

// CartSetItem upserts one line in the cart. Prices are never taken from the
// client; checkout reads them from the catalog.
func CartSetItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		var payload cartSetItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.SetItem(r.Context(), userID, cartsvc.SetItemInput{
			ProductID:    payload.ProductID,
			VariationSKU: payload.VariationSKU,
			Quantity:     payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}
