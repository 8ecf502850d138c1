package engine

import (
	"github.com/shopspring/decimal"

	"github.com/ikart/storefront/internal/domain"
)

var (
	// FlatShippingFee is charged on every non-empty cart.
	FlatShippingFee = decimal.NewFromInt(100)

	// TaxRate applies to the subtotal, not the shipped total.
	TaxRate = decimal.NewFromFloat(0.18)
)

// Totals is the priced summary of a cart computed against live catalog data.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	// Stale lists product ids of cart lines whose product no longer exists
	// in the catalog. Stale lines are excluded from every figure but left in
	// the cart itself for the owner to resolve.
	Stale []string `json:"stale,omitempty"`
}

// Badges carries the header counters: total cart quantity and wishlist size.
type Badges struct {
	CartCount     int `json:"cart_count"`
	WishlistCount int `json:"wishlist_count"`
}

// ComputeTotals prices the cart using current catalog prices. Lines whose
// product cannot be resolved are skipped and reported as stale. An empty (or
// fully stale) cart carries no shipping fee.
func ComputeTotals(cart domain.Cart, finder ProductFinder) Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}

	for _, line := range cart.Lines {
		product, ok := finder.Find(line.ProductID)
		if !ok {
			t.Stale = append(t.Stale, line.ProductID)
			continue
		}
		t.Subtotal = t.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		t.ItemCount += line.Quantity
	}

	if t.Subtotal.IsPositive() {
		t.Shipping = FlatShippingFee
	}
	t.Tax = t.Subtotal.Mul(TaxRate)
	t.Total = t.Subtotal.Add(t.Shipping).Add(t.Tax)
	return t
}

// BadgeCounts derives the header badge counters from the two collections.
func BadgeCounts(cart domain.Cart, wishlist domain.Wishlist) Badges {
	return Badges{
		CartCount:     cart.ItemCount(),
		WishlistCount: wishlist.Len(),
	}
}
