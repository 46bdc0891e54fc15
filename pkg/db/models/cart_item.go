package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

// CartItem is one line inside a cart. Line identity is
// (cart, kind, referenced id, pack size); the cart_items_line_identity_key
// unique index backs the atomic upsert-with-increment on concurrent adds.
type CartItem struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID          `gorm:"column:cart_id;type:uuid;not null"`
	Kind      enums.CartLineKind `gorm:"column:kind;type:text;not null"`
	ProductID *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	GiftBoxID *uuid.UUID         `gorm:"column:gift_box_id;type:uuid"`
	PackSize  *string            `gorm:"column:pack_size"`
	Quantity  int                `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// RefID returns whichever reference the line carries.
func (i CartItem) RefID() uuid.UUID {
	if i.Kind == enums.LineKindGiftBox && i.GiftBoxID != nil {
		return *i.GiftBoxID
	}
	if i.ProductID != nil {
		return *i.ProductID
	}
	return uuid.Nil
}
