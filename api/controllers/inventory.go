package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hardikpatel/shopkart-backend/api/responses"
	"github.com/hardikpatel/shopkart-backend/api/validators"
	inventorysvc "github.com/hardikpatel/shopkart-backend/internal/inventory"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
)

type addStockRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	SKU       string    `json:"sku" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Reason    string    `json:"reason" validate:"required,min=3,max=255"`
}

// InventoryAddStock applies a positive adjustment resolved by SKU. Admin only.
func InventoryAddStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddStockBySKU(r.Context(), payload.ProductID, payload.SKU,
			payload.Quantity, validators.SanitizeString(payload.Reason, 255))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type movementListResponse struct {
	Items  []movementResponse `json:"items"`
	Cursor string             `json:"cursor,omitempty"`
}

type movementResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	VariationSKU  *string   `json:"variation_sku,omitempty"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	CreatedAt     string    `json:"created_at"`
}

// InventoryMovements lists a product's ledger newest first. Admin only.
func InventoryMovements(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, hasMore, err := svc.ListMovements(r.Context(), productID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := movementListResponse{Items: make([]movementResponse, 0, len(movements))}
		for _, m := range movements {
			out.Items = append(out.Items, movementResponse{
				ID:            m.ID,
				ProductID:     m.ProductID,
				VariationSKU:  m.VariationSKU,
				Type:          string(m.Type),
				Quantity:      m.Quantity,
				PreviousStock: m.PreviousStock,
				NewStock:      m.NewStock,
				Reason:        m.Reason,
				CreatedAt:     m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		if hasMore && len(movements) > 0 {
			last := movements[len(movements)-1]
			out.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		}
		responses.WriteSuccess(w, out)
	}
}
