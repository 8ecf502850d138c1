package domain

import "github.com/shopspring/decimal"

// WishlistEntry is a product saved for later. Name, price, and image are
// add-time snapshots; live stock and price come from the catalog.
type WishlistEntry struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

// Wishlist is the set of saved products, at most one entry per product id.
type Wishlist struct {
	Entries []WishlistEntry `json:"entries"`
}

// Contains reports whether the wishlist holds an entry for the product id.
func (w Wishlist) Contains(productID string) bool {
	for i := range w.Entries {
		if w.Entries[i].ProductID == productID {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (w Wishlist) Len() int {
	return len(w.Entries)
}

// Clone returns a wishlist whose entry slice is independent of the receiver's.
func (w Wishlist) Clone() Wishlist {
	if w.Entries == nil {
		return Wishlist{Entries: []WishlistEntry{}}
	}
	entries := make([]WishlistEntry, len(w.Entries))
	copy(entries, w.Entries)
	return Wishlist{Entries: entries}
}

// Normalize repairs a wishlist loaded from untrusted persisted state by
// dropping entries with empty product ids and collapsing duplicates to the
// first occurrence.
func (w Wishlist) Normalize() Wishlist {
	out := Wishlist{Entries: make([]WishlistEntry, 0, len(w.Entries))}
	seen := make(map[string]struct{}, len(w.Entries))
	for _, e := range w.Entries {
		if e.ProductID == "" {
			continue
		}
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}
		out.Entries = append(out.Entries, e)
	}
	return out
}
