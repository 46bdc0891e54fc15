package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
)

// CreateOrderInput is a checkout request after HTTP decoding.
type CreateOrderInput struct {
	ShippingAddress models.Address
	BillingAddress  models.Address
	PaymentMethod   enums.PaymentMethod
}

// Receipt summarises a freshly assembled order for the confirmation page.
// The decimal totals are display values derived from the stored cents.
type Receipt struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalCents    int                 `json:"total_cents"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	ItemCount     int                 `json:"item_count"`
}
