package carts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
)

func setupCartsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  recovery_email_sent_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variation_sku TEXT,
  quantity INTEGER NOT NULL,
  price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

func newCartService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestGetOrCreate_IsIdempotentPerUser(t *testing.T) {
	conn := setupCartsTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Cart{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSetItem_UpsertsByProductAndVariation(t *testing.T) {
	conn := setupCartsTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	price := decimal.RequireFromString("99.50")

	cart, err := svc.SetItem(ctx, userID, SetItemInput{ProductID: productID, Quantity: 1, Price: &price})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	// same product again replaces the quantity instead of adding a row
	cart, err = svc.SetItem(ctx, userID, SetItemInput{ProductID: productID, Quantity: 4, Price: &price})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 4, cart.Items[0].Quantity)

	// a variation of the same product is its own line
	sku := "SKU-L"
	cart, err = svc.SetItem(ctx, userID, SetItemInput{ProductID: productID, VariationSKU: &sku, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
}

func TestRemoveItemAndClear(t *testing.T) {
	conn := setupCartsTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	cart, err := svc.SetItem(ctx, userID, SetItemInput{ProductID: uuid.New(), Quantity: 1})
	require.NoError(t, err)
	cart, err = svc.SetItem(ctx, userID, SetItemInput{ProductID: uuid.New(), Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart, err = svc.RemoveItem(ctx, userID, cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	require.NoError(t, svc.Clear(ctx, userID))
	cart, err = svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestClear_NoCartIsANoop(t *testing.T) {
	conn := setupCartsTestDB(t)
	svc := newCartService(t, conn)

	require.NoError(t, svc.Clear(context.Background(), uuid.New()))
}

func TestListAbandoned(t *testing.T) {
	conn := setupCartsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)

	stale := &models.Cart{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, conn.Create(&models.CartItem{
		ID: uuid.New(), CartID: stale.ID, ProductID: uuid.New(), Quantity: 1,
	}).Error)

	fresh := &models.Cart{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, conn.Create(&models.CartItem{
		ID: uuid.New(), CartID: fresh.ID, ProductID: uuid.New(), Quantity: 1,
	}).Error)

	empty := &models.Cart{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, empty))

	notified := &models.Cart{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, notified))
	require.NoError(t, conn.Create(&models.CartItem{
		ID: uuid.New(), CartID: notified.ID, ProductID: uuid.New(), Quantity: 1,
	}).Error)

	// backdate everything except the fresh cart
	for _, id := range []uuid.UUID{stale.ID, empty.ID, notified.ID} {
		require.NoError(t, conn.Model(&models.Cart{}).Where("id = ?", id).
			UpdateColumn("updated_at", old).Error)
	}
	require.NoError(t, repo.MarkRecoveryEmailSent(ctx, notified.ID, now))
	require.NoError(t, conn.Model(&models.Cart{}).Where("id = ?", notified.ID).
		UpdateColumn("updated_at", old).Error)

	abandoned, err := repo.ListAbandoned(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	require.Equal(t, stale.ID, abandoned[0].ID)
	require.Len(t, abandoned[0].Items, 1)
}
