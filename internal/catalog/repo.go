package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
)

// Repository is the read-only seam onto the product and gift-box catalog.
// Catalog writes happen in the admin back office, outside this service.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the catalog reader to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProductByID loads a product with its pack-level price overrides.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("PackPrices").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindGiftBoxByID loads a gift box.
func (r *Repository) FindGiftBoxByID(ctx context.Context, id uuid.UUID) (*models.GiftBox, error) {
	var box models.GiftBox
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&box).Error
	if err != nil {
		return nil, err
	}
	return &box, nil
}
