package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  inventory_managed INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_variations (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  inventory_managed INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS inventory_movements (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  variation_sku TEXT,
  quantity INTEGER NOT NULL,
  type TEXT NOT NULL,
  reason TEXT NOT NULL,
  previous_stock INTEGER NOT NULL,
  new_stock INTEGER NOT NULL,
  reference_order_id TEXT,
  notes TEXT,
  created_at DATETIME
);`}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

type recordingInvalidator struct {
	productIDs []string
}

func (r *recordingInvalidator) InvalidateProduct(ctx context.Context, productID string) error {
	r.productIDs = append(r.productIDs, productID)
	return nil
}

func newInventoryService(t *testing.T, conn *gorm.DB, cache CacheInvalidator) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
	svc, err := NewService(NewRepository(conn), cache, logg)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, stock int, variations ...models.ProductVariation) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:               uuid.New(),
		Name:             "Widget",
		SKU:              "WID-1",
		Price:            decimal.NewFromInt(100),
		Stock:            stock,
		InventoryManaged: true,
		IsActive:         true,
	}
	require.NoError(t, conn.Create(product).Error)
	for i := range variations {
		variations[i].ID = uuid.New()
		variations[i].ProductID = product.ID
		require.NoError(t, conn.Create(&variations[i]).Error)
	}
	return product
}

func TestAdjust_DecrementWritesCounterAndMovement(t *testing.T) {
	conn := setupInventoryTestDB(t)
	cache := &recordingInvalidator{}
	svc := newInventoryService(t, conn, cache)
	product := seedProduct(t, conn, 10)
	ctx := context.Background()

	orderID := uuid.New()
	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID:        product.ID,
		QuantityDelta:    -3,
		Type:             enums.MovementTypeOut,
		Reason:           "order placed",
		ReferenceOrderID: &orderID,
	})
	require.NoError(t, err)
	require.Equal(t, 10, result.PreviousStock)
	require.Equal(t, 7, result.NewStock)

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 7, stored.Stock)

	var movements []models.InventoryMovement
	require.NoError(t, conn.Find(&movements, "product_id = ?", product.ID).Error)
	require.Len(t, movements, 1)
	require.Equal(t, -3, movements[0].Quantity)
	require.Equal(t, 10, movements[0].PreviousStock)
	require.Equal(t, 7, movements[0].NewStock)
	require.NotNil(t, movements[0].ReferenceOrderID)
	require.Equal(t, orderID, *movements[0].ReferenceOrderID)

	require.Equal(t, []string{product.ID.String()}, cache.productIDs)
}

func TestAdjust_InsufficientStockWritesNothing(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 2)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, AdjustInput{
		ProductID:     product.ID,
		QuantityDelta: -5,
		Type:          enums.MovementTypeOut,
		Reason:        "order placed",
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 2, stored.Stock, "stock must be untouched")

	var count int64
	require.NoError(t, conn.Model(&models.InventoryMovement{}).Count(&count).Error)
	require.Zero(t, count, "no ledger row on rejection")
}

func TestAdjust_VariationStock(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 0, models.ProductVariation{
		Name: "Large", SKU: "WID-1-L", Price: decimal.NewFromInt(120),
		Stock: 5, InventoryManaged: true,
	})
	ctx := context.Background()

	sku := "wid-1-l" // SKU matching is case-insensitive
	result, err := svc.Adjust(ctx, AdjustInput{
		ProductID:     product.ID,
		VariationSKU:  &sku,
		QuantityDelta: -2,
		Type:          enums.MovementTypeOut,
		Reason:        "order placed",
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.NewStock)

	var variation models.ProductVariation
	require.NoError(t, conn.First(&variation, "sku = ?", "WID-1-L").Error)
	require.Equal(t, 3, variation.Stock)

	// the parent product counter is untouched
	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 0, stored.Stock)
}

func TestAdjust_UnknownVariationSKU(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 5)

	sku := "NOPE"
	_, err := svc.Adjust(context.Background(), AdjustInput{
		ProductID:     product.ID,
		VariationSKU:  &sku,
		QuantityDelta: 1,
		Type:          enums.MovementTypeIn,
		Reason:        "restock",
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestAddStockBySKU_OwnSKUBeatsVariations(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	// variation deliberately shares the product's own SKU
	product := seedProduct(t, conn, 1, models.ProductVariation{
		Name: "Clone", SKU: "WID-1", Price: decimal.NewFromInt(100),
		Stock: 50, InventoryManaged: true,
	})

	result, err := svc.AddStockBySKU(context.Background(), product.ID, "WID-1", 4, "restock")
	require.NoError(t, err)
	require.Equal(t, 5, result.NewStock)

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 5, stored.Stock)
}

func TestAddStockBySKU_ResolvesVariation(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 0, models.ProductVariation{
		Name: "Large", SKU: "WID-1-L", Price: decimal.NewFromInt(120),
		Stock: 2, InventoryManaged: true,
	})

	result, err := svc.AddStockBySKU(context.Background(), product.ID, "WID-1-L", 3, "restock")
	require.NoError(t, err)
	require.Equal(t, 5, result.NewStock)
}

func TestAddStockBySKU_UnmanagedSKUFails(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 0, models.ProductVariation{
		Name: "Unmanaged", SKU: "WID-1-U", Price: decimal.NewFromInt(90),
		Stock: 2, InventoryManaged: false,
	})

	_, err := svc.AddStockBySKU(context.Background(), product.ID, "WID-1-U", 1, "restock")
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestListMovements_NewestFirstWithPagination(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newInventoryService(t, conn, nil)
	product := seedProduct(t, conn, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Adjust(ctx, AdjustInput{
			ProductID:     product.ID,
			QuantityDelta: 1,
			Type:          enums.MovementTypeIn,
			Reason:        "restock",
		})
		require.NoError(t, err)
	}

	rows, hasMore, err := svc.ListMovements(ctx, product.ID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.True(t, hasMore)
	// newest first: last write has new_stock 5
	require.Equal(t, 5, rows[0].NewStock)
}
