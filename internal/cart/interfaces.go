package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/guestcart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, record *models.Cart) error
	FindLine(ctx context.Context, cartID uuid.UUID, ref LineRef, packSize *string) (*models.CartItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	InsertLine(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, itemID uuid.UUID, delta int) error
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteByCart(ctx context.Context, cartID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}

// GuestSession reads and retires anonymous carts kept outside the database.
type GuestSession interface {
	Load(ctx context.Context, token string) guestcart.Payload
	Delete(ctx context.Context, token string) error
	Count(ctx context.Context, token string) int
}

// CatalogReader is the read seam onto products and gift boxes.
type CatalogReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindGiftBoxByID(ctx context.Context, id uuid.UUID) (*models.GiftBox, error)
}
