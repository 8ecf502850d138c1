// Package catalog holds the immutable product reference data. It is loaded
// once at startup; every lookup afterwards is an in-memory read.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ikart/storefront/internal/domain"
)

//go:embed seed.json
var seedData []byte

// seedRecord mirrors the raw seed layout. Historic records used both "image"
// and "img" for the same field; the alias is collapsed here, once, at the
// loading boundary.
type seedRecord struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Price          decimal.Decimal        `json:"price"`
	Category       string                 `json:"category"`
	Image          string                 `json:"image"`
	Img            string                 `json:"img"`
	DetailImages   []string               `json:"detailImages"`
	Description    string                 `json:"description"`
	Specifications []domain.Specification `json:"specifications"`
	Rating         float64                `json:"rating"`
	Reviews        int                    `json:"reviews"`
	Stock          int                    `json:"stock"`
	Discount       int                    `json:"discount"`
}

func (r seedRecord) toProduct() domain.Product {
	image := r.Image
	if image == "" {
		image = r.Img
	}
	return domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Price:          r.Price,
		Category:       r.Category,
		Image:          image,
		DetailImages:   r.DetailImages,
		Description:    r.Description,
		Specifications: r.Specifications,
		Rating:         r.Rating,
		Reviews:        r.Reviews,
		Stock:          r.Stock,
		Discount:       r.Discount,
	}
}

// Catalog is an ordered, immutable product list with an id index.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// Load builds the catalog from the embedded seed.
func Load() (*Catalog, error) {
	return Parse(seedData)
}

// Parse builds a catalog from raw seed JSON. Records with an empty id, an
// empty name, negative stock, or a negative price are rejected: the catalog
// is reference data and must be well formed.
func Parse(data []byte) (*Catalog, error) {
	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}

	c := &Catalog{
		products: make([]domain.Product, 0, len(records)),
		byID:     make(map[string]int, len(records)),
	}

	for i, rec := range records {
		if rec.ID == "" || rec.Name == "" {
			return nil, fmt.Errorf("catalog record %d: id and name are required", i)
		}
		if rec.Stock < 0 {
			return nil, fmt.Errorf("catalog record %q: negative stock", rec.ID)
		}
		if rec.Price.IsNegative() {
			return nil, fmt.Errorf("catalog record %q: negative price", rec.ID)
		}
		if _, dup := c.byID[rec.ID]; dup {
			return nil, fmt.Errorf("catalog record %q: duplicate id", rec.ID)
		}
		c.byID[rec.ID] = len(c.products)
		c.products = append(c.products, rec.toProduct())
	}

	return c, nil
}

// Find returns the product with the given id.
func (c *Catalog) Find(id string) (domain.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[idx], true
}

// List returns a copy of the full product list in seed order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
