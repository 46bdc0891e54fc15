package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  product_id TEXT,
  gift_box_id TEXT,
  pack_size TEXT,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedStaleLine(t *testing.T, db *gorm.DB, stale time.Time) *models.CartItem {
	t.Helper()

	record := &models.Cart{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, db.Create(record).Error)

	productID := uuid.New()
	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    record.ID,
		Kind:      enums.LineKindProduct,
		ProductID: &productID,
		Quantity:  2,
	}
	require.NoError(t, db.Create(item).Error)

	// UpdateColumn skips update-time tracking, leaving the row backdated.
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		UpdateColumn("updated_at", stale).Error)
	return item
}

func reloadLine(t *testing.T, db *gorm.DB, itemID uuid.UUID) models.CartItem {
	t.Helper()

	var item models.CartItem
	require.NoError(t, db.Where("id = ?", itemID).First(&item).Error)
	return item
}

func TestIncrementQuantityRefreshesTimestamp(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	stale := time.Now().Add(-time.Hour).UTC()
	item := seedStaleLine(t, db, stale)

	require.NoError(t, repo.IncrementQuantity(context.Background(), item.ID, 3))

	got := reloadLine(t, db, item.ID)
	require.Equal(t, 5, got.Quantity)
	require.True(t, got.UpdatedAt.After(stale), "updated_at not refreshed: %s", got.UpdatedAt)
}

func TestSetQuantityRefreshesTimestamp(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	stale := time.Now().Add(-time.Hour).UTC()
	item := seedStaleLine(t, db, stale)

	require.NoError(t, repo.SetQuantity(context.Background(), item.ID, 7))

	got := reloadLine(t, db, item.ID)
	require.Equal(t, 7, got.Quantity)
	require.True(t, got.UpdatedAt.After(stale), "updated_at not refreshed: %s", got.UpdatedAt)
}

func TestSetQuantityMissingLineIsNotFound(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	err := repo.SetQuantity(context.Background(), uuid.New(), 4)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
