package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog read source consumed by the cart and pricing layers.
// Administrative CRUD for this table lives outside this service.
type Product struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string             `gorm:"column:name;not null"`
	Description    *string            `gorm:"column:description"`
	PriceCents     int                `gorm:"column:price_cents;not null"`
	SalePriceCents *int               `gorm:"column:sale_price_cents"`
	ImageURL       *string            `gorm:"column:image_url"`
	InStock        bool               `gorm:"column:in_stock;not null;default:true"`
	PackPrices     []ProductPackPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductPackPrice is a pack-size level price override. When a shopper selects
// the matching pack size, this row's sale price (or price) wins over the
// product's top-level pricing.
type ProductPackPrice struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_pack_prices_product_pack_key"`
	PackSize       string    `gorm:"column:pack_size;not null;uniqueIndex:product_pack_prices_product_pack_key"`
	PriceCents     int       `gorm:"column:price_cents;not null"`
	SalePriceCents *int      `gorm:"column:sale_price_cents"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
