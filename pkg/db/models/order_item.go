package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

// OrderItem freezes a cart line at checkout. Name and unit price are copied,
// never re-joined to the catalog, so later price edits cannot rewrite history.
type OrderItem struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	Kind           enums.CartLineKind `gorm:"column:kind;type:text;not null"`
	ProductID      *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	GiftBoxID      *uuid.UUID         `gorm:"column:gift_box_id;type:uuid"`
	ProductName    string             `gorm:"column:product_name;not null"`
	UnitPriceCents int                `gorm:"column:unit_price_cents;not null"`
	Quantity       int                `gorm:"column:quantity;not null"`
	PackSize       *string            `gorm:"column:pack_size"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}
