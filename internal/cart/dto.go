package cart

import (
	"github.com/google/uuid"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/enums"
	pkgerrors "github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/errors"
)

// LineRef identifies what a cart line points at: a product or a gift box,
// never both, never neither. Constructing one through the helpers keeps the
// invalid dual-reference shape unrepresentable above the persistence layer.
type LineRef struct {
	Kind enums.CartLineKind
	ID   uuid.UUID
}

// ProductRef builds a reference to a catalog product.
func ProductRef(id uuid.UUID) LineRef {
	return LineRef{Kind: enums.LineKindProduct, ID: id}
}

// GiftBoxRef builds a reference to a gift box.
func GiftBoxRef(id uuid.UUID) LineRef {
	return LineRef{Kind: enums.LineKindGiftBox, ID: id}
}

// Validate rejects references that name no target or an unknown kind.
func (r LineRef) Validate() error {
	if !r.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "line must reference exactly one of product or gift box")
	}
	if r.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line reference id is required")
	}
	return nil
}

// AddItemInput captures an add-to-cart request after HTTP decoding.
type AddItemInput struct {
	Ref      LineRef
	Quantity int
	PackSize *string
}

// DisplayItem is a cart line joined against its catalog snapshot, priced and
// ready for rendering.
type DisplayItem struct {
	ItemID         uuid.UUID          `json:"item_id"`
	Kind           enums.CartLineKind `json:"kind"`
	RefID          uuid.UUID          `json:"ref_id"`
	Name           string             `json:"name"`
	PackSize       *string            `json:"pack_size,omitempty"`
	Quantity       int                `json:"quantity"`
	UnitPriceCents int                `json:"unit_price_cents"`
	LineTotalCents int                `json:"line_total_cents"`
	ImageURL       *string            `json:"image_url,omitempty"`
	InStock        bool               `json:"in_stock"`
}

// LineWarning flags a cart line whose catalog reference no longer resolves.
// Warned lines are excluded from Items but never silently lost.
type LineWarning struct {
	ItemID uuid.UUID `json:"item_id"`
	Reason string    `json:"reason"`
}

// CartView is the display-ready projection of a cart.
type CartView struct {
	CartID   uuid.UUID     `json:"cart_id"`
	Items    []DisplayItem `json:"items"`
	Warnings []LineWarning `json:"warnings,omitempty"`
}

// Count sums line quantities.
func (v CartView) Count() int {
	total := 0
	for _, item := range v.Items {
		total += item.Quantity
	}
	return total
}

// TotalCents sums line totals.
func (v CartView) TotalCents() int {
	total := 0
	for _, item := range v.Items {
		total += item.LineTotalCents
	}
	return total
}
