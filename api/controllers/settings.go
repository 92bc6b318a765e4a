package controllers

import (
	"net/http"

	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	settingsvc "github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// SettingsGet returns the current store configuration. Admin only; the
// payload includes gateway and channel credentials.
func SettingsGet(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

type updateSettingsRequest struct {
	Checkout      *types.CheckoutSettings     `json:"checkout"`
	Payments      *types.PaymentSettings      `json:"payments"`
	Shipping      *types.ShippingSettings     `json:"shipping"`
	Coupons       *types.CouponSettings       `json:"coupons"`
	Notifications *types.NotificationSettings `json:"notifications"`
}

// SettingsUpdate merges the supplied sections over the stored configuration.
func SettingsUpdate(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Update(r.Context(), settingsvc.UpdateSettingsInput{
			Checkout:      payload.Checkout,
			Payments:      payload.Payments,
			Shipping:      payload.Shipping,
			Coupons:       payload.Coupons,
			Notifications: payload.Notifications,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
