package enums

// CartLineKind discriminates what a cart or order line references. A line is
// always exactly one of the two; the dual-nullable-foreign-key shape is not
// representable through the service layer.
type CartLineKind string

const (
	LineKindProduct CartLineKind = "product"
	LineKindGiftBox CartLineKind = "gift_box"
)

func (k CartLineKind) IsValid() bool {
	return k == LineKindProduct || k == LineKindGiftBox
}
