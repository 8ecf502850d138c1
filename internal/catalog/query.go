package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ikart/storefront/internal/domain"
)

// SortKey selects a listing order.
type SortKey string

const (
	SortDefault    SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNewest     SortKey = "newest"
	SortPopularity SortKey = "popularity"
)

// ParseSortKey maps a query value to a sort key; unknown values fall back to
// the default (seed) order.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortPopularity:
		return SortKey(s)
	default:
		return SortDefault
	}
}

// Sort orders products in place by the given key. The sort is stable, so
// products that compare equal keep their incoming relative order.
func Sort(products []domain.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return idSequence(products[i].ID) > idSequence(products[j].ID)
		})
	case SortPopularity:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Reviews > products[j].Reviews
		})
	}
}

// idSequence extracts the numeric suffix of a product id like "tech-002".
// Ids without a numeric suffix sort as 0, i.e. oldest.
func idSequence(id string) int {
	idx := strings.LastIndex(id, "-")
	if idx < 0 || idx == len(id)-1 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// Filter returns the products matching the given category set and inclusive
// price bounds. An empty category set matches every category; a nil bound is
// unbounded on that side. Input order is preserved.
func Filter(products []domain.Product, categories []string, minPrice, maxPrice *decimal.Decimal) []domain.Product {
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(wanted) > 0 {
			if _, ok := wanted[p.Category]; !ok {
				continue
			}
		}
		if minPrice != nil && p.Price.LessThan(*minPrice) {
			continue
		}
		if maxPrice != nil && p.Price.GreaterThan(*maxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate slices items into the requested 1-based page. Pages beyond the end
// return an empty slice, not an error.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
