package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed cart repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *models.Cart) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindLine locates the cart line matching the reference. When a pack size is
// supplied only a line with that exact pack size matches; otherwise the oldest
// line for the reference is the match.
func (r *repository) FindLine(ctx context.Context, cartID uuid.UUID, ref LineRef, packSize *string) (*models.CartItem, error) {
	query := r.db.WithContext(ctx).Where("cart_id = ? AND kind = ?", cartID, ref.Kind)
	switch ref.Kind {
	case enums.LineKindGiftBox:
		query = query.Where("gift_box_id = ?", ref.ID)
	default:
		query = query.Where("product_id = ?", ref.ID)
	}
	if packSize != nil {
		query = query.Where("pack_size = ?", *packSize)
	}

	var item models.CartItem
	if err := query.Order("created_at ASC").First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertLine writes a new cart line. If a concurrent request inserted the same
// identity first, the conflict clause folds this quantity into the existing
// row instead of failing or duplicating the line.
func (r *repository) InsertLine(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO cart_items (id, cart_id, kind, product_id, gift_box_id, pack_size, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (cart_id, kind, COALESCE(product_id, gift_box_id), COALESCE(pack_size, ''))
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
	`, item.ID, item.CartID, item.Kind, item.ProductID, item.GiftBoxID, item.PackSize, item.Quantity).Error
}

// IncrementQuantity adds delta to a line's quantity. Update (not
// UpdateColumn) so the line's updated_at moves with the change.
func (r *repository) IncrementQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *repository) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes a cart line. Deleting a line that is already gone is a
// no-op.
func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

func (r *repository) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
