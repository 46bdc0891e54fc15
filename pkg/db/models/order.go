package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

// Order is the immutable snapshot of a checked-out cart. Only status and
// payment_status may change after creation. UserID is nullable to accommodate
// legacy guest orders imported before accounts were required at checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid;index:orders_user_id_idx"`
	TotalCents      int                 `gorm:"column:total_cents;not null"`
	ShippingAddress Address             `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  Address             `gorm:"column:billing_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Address is the shipping/billing payload frozen onto an order.
type Address struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}
