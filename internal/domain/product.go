package domain

import "github.com/shopspring/decimal"

// Specification is one ordered key/value row on a product detail page.
type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Product is a catalog item. The catalog is the authoritative source for
// live price and stock; snapshots persisted in carts and wishlists are
// display hints only.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Category       string          `json:"category"`
	Image          string          `json:"image"`
	DetailImages   []string        `json:"detail_images,omitempty"`
	Description    string          `json:"description,omitempty"`
	Specifications []Specification `json:"specifications,omitempty"`
	Rating         float64         `json:"rating,omitempty"`
	Reviews        int             `json:"reviews,omitempty"`
	Stock          int             `json:"stock"`
	Discount       int             `json:"discount,omitempty"`
}

// InStock reports whether any units remain.
func (p Product) InStock() bool {
	return p.Stock > 0
}
