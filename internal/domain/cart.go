package domain

import "github.com/shopspring/decimal"

// CartLine is one product's quantity entry within a cart. The name, price,
// image, and stock fields are denormalized snapshots taken at add time; the
// catalog remains authoritative for validation and totals.
type CartLine struct {
	ProductID string          `json:"id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock,omitempty"`
}

// Cart is the set of cart lines, materialized as an ordered sequence for
// display. At most one line exists per product id.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// FindLineIndex returns the index of the line for the given product id, or -1.
func (c Cart) FindLineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemCount returns the total quantity across all lines.
func (c Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a cart whose line slice is independent of the receiver's.
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{Lines: []CartLine{}}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Normalize repairs a cart loaded from untrusted persisted state: lines with
// an empty product id or a non-positive quantity are dropped, and duplicate
// lines for the same product id collapse to the first occurrence.
func (c Cart) Normalize() Cart {
	out := Cart{Lines: make([]CartLine, 0, len(c.Lines))}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, line := range c.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		if _, dup := seen[line.ProductID]; dup {
			continue
		}
		seen[line.ProductID] = struct{}{}
		out.Lines = append(out.Lines, line)
	}
	return out
}
