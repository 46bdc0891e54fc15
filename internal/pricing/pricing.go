package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db/models"
)

// EffectiveUnitPriceCents resolves the unit price for a product and an
// optionally selected pack size. Resolution order, highest priority first:
//
//  1. a pack-level override matching the selected pack size
//     (its sale price when present, else its price)
//  2. the product's top-level sale price
//  3. the product's top-level price
//
// The order matters: a pack override must win over the product sale price,
// otherwise packaged variants are totaled wrong.
func EffectiveUnitPriceCents(product models.Product, packSize *string) int {
	if packSize != nil {
		for _, override := range product.PackPrices {
			if override.PackSize != *packSize {
				continue
			}
			if override.SalePriceCents != nil {
				return *override.SalePriceCents
			}
			return override.PriceCents
		}
	}
	if product.SalePriceCents != nil {
		return *product.SalePriceCents
	}
	return product.PriceCents
}

// Totals is a display-ready breakdown of a money amount with the flat tax
// rate applied. Orders persist the pre-tax total; this exists for UI only.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Grand    decimal.Decimal
}

// DisplayTotals converts a cent amount into major units and applies the flat
// display tax rate (a percentage, e.g. "5"). An unparseable rate counts as zero.
func DisplayTotals(subtotalCents int, taxRatePercent string) Totals {
	subtotal := decimal.NewFromInt(int64(subtotalCents)).Div(decimal.NewFromInt(100))
	rate, err := decimal.NewFromString(taxRatePercent)
	if err != nil {
		rate = decimal.Zero
	}
	tax := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Grand:    subtotal.Add(tax),
	}
}
