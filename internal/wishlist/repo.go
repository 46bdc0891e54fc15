package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
)

// Entry is a wishlist row joined with its product snapshot for display.
type Entry struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	PriceCents     int       `json:"price_cents"`
	SalePriceCents *int      `json:"sale_price_cents,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	InStock        bool      `json:"in_stock"`
}

// Repository is the persistence surface for wishlists.
type Repository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed wishlist repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add inserts the pair, quietly keeping the existing row on repeat likes.
func (r *repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES (?, ?, ?, now())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, uuid.New(), userID, productID).Error
}

// Remove deletes the pair; removing an absent pair is a no-op.
func (r *repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}

func (r *repository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser returns wishlist entries newest first, joined against products.
// Rows whose product has been deleted drop out of the join.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select("products.id AS product_id, products.name, products.price_cents, products.sale_price_cents, products.image_url, products.in_stock").
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
