package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	shippingsvc "github.com/hardikpatel/shopkart-backend/internal/shipping"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
)

// ShippingOptions quotes every active method of the first matching zone for
// a destination. Public so the storefront can price before login, and a GET
// so quotes for a destination are CDN-cacheable.
func ShippingOptions(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		country := strings.TrimSpace(q.Get("country"))
		if country == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "country is required").WithDetails(map[string]any{"field": "country"}))
			return
		}

		rawSubtotal := strings.TrimSpace(q.Get("subtotal"))
		if rawSubtotal == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "subtotal is required").WithDetails(map[string]any{"field": "subtotal"}))
			return
		}
		subtotal, err := decimal.NewFromString(rawSubtotal)
		if err != nil || subtotal.IsNegative() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be a non-negative decimal"))
			return
		}

		itemCount, err := validators.ParseQueryInt(r, "item_count", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dest := shippingsvc.Destination{
			Country: country,
			State:   strings.TrimSpace(q.Get("state")),
			Zip:     strings.TrimSpace(q.Get("zip")),
		}
		result, err := svc.Quote(r.Context(), dest, subtotal, itemCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
