package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
)

// CacheInvalidator drops cached product views after a stock write. A nil
// invalidator disables invalidation (tests, tx-scoped services).
type CacheInvalidator interface {
	InvalidateProduct(ctx context.Context, productID string) error
}

// AdjustInput describes one stock mutation.
type AdjustInput struct {
	ProductID        uuid.UUID
	VariationSKU     *string
	QuantityDelta    int
	Type             enums.MovementType
	Reason           string
	ReferenceOrderID *uuid.UUID
	Notes            *string
}

// AdjustResult reports the stock values bracketing the mutation.
type AdjustResult struct {
	PreviousStock int
	NewStock      int
	Movement      *models.InventoryMovement
}

// Service is the stock ledger. Every counter mutation appends exactly one
// movement row; a rejected mutation writes nothing.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error)
	// AddStockBySKU resolves a SKU to the product's own SKU or one of its
	// variations, then applies a positive adjustment.
	AddStockBySKU(ctx context.Context, productID uuid.UUID, sku string, quantity int, reason string) (*AdjustResult, error)
	ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.InventoryMovement, bool, error)
	WithTx(tx *gorm.DB) Service
}

type service struct {
	repo  Repository
	cache CacheInvalidator
	logg  *logger.Logger
}

// NewService wires an inventory service. The cache invalidator is optional.
func NewService(repo Repository, cache CacheInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), cache: s.cache, logg: s.logg}
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", input.Type))
	}
	if input.QuantityDelta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be non-zero")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	product, err := s.repo.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	previous, variationID, err := resolveStock(product, input.VariationSKU)
	if err != nil {
		return nil, err
	}

	newStock := previous + input.QuantityDelta
	if newStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{
				"product_id": product.ID,
				"available":  previous,
				"requested":  -input.QuantityDelta,
			})
	}

	if variationID != nil {
		err = s.repo.UpdateVariationStock(ctx, *variationID, newStock)
	} else {
		err = s.repo.UpdateProductStock(ctx, product.ID, newStock)
	}
	if err != nil {
		return nil, err
	}

	movement := &models.InventoryMovement{
		ProductID:        product.ID,
		VariationSKU:     input.VariationSKU,
		Quantity:         input.QuantityDelta,
		Type:             input.Type,
		Reason:           input.Reason,
		PreviousStock:    previous,
		NewStock:         newStock,
		ReferenceOrderID: input.ReferenceOrderID,
		Notes:            input.Notes,
	}
	if err := s.repo.CreateMovement(ctx, movement); err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)

	return &AdjustResult{PreviousStock: previous, NewStock: newStock, Movement: movement}, nil
}

func (s *service) AddStockBySKU(ctx context.Context, productID uuid.UUID, sku string, quantity int, reason string) (*AdjustResult, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	// The product's own SKU takes priority over variation SKUs.
	var variationSKU *string
	switch {
	case product.InventoryManaged && strings.EqualFold(product.SKU, sku):
		variationSKU = nil
	default:
		found := false
		for i := range product.Variations {
			v := &product.Variations[i]
			if v.InventoryManaged && strings.EqualFold(v.SKU, sku) {
				variationSKU = &v.SKU
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("sku %q is not inventory-managed on this product", sku))
		}
	}

	return s.Adjust(ctx, AdjustInput{
		ProductID:     productID,
		VariationSKU:  variationSKU,
		QuantityDelta: quantity,
		Type:          enums.MovementTypeIn,
		Reason:        reason,
	})
}

func (s *service) ListMovements(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.InventoryMovement, bool, error) {
	if productID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.ListMovements(ctx, productID, params)
}

// invalidate is best effort; a stale cache entry expires on its own.
func (s *service) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, productID.String()); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "product_id", productID.String()),
			"product cache invalidation failed: "+err.Error())
	}
}

// resolveStock picks the counter the adjustment targets: the product's own
// stock, or a variation's when a SKU is given.
func resolveStock(product *models.Product, variationSKU *string) (int, *uuid.UUID, error) {
	if variationSKU == nil || strings.TrimSpace(*variationSKU) == "" {
		return product.Stock, nil, nil
	}
	sku := strings.TrimSpace(*variationSKU)
	for i := range product.Variations {
		v := &product.Variations[i]
		if strings.EqualFold(v.SKU, sku) {
			return v.Stock, &v.ID, nil
		}
	}
	return 0, nil, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("variation sku %q not found on product", sku))
}
