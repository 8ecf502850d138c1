package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ikart/storefront/internal/catalog"
	apperrors "github.com/ikart/storefront/pkg/errors"
	"github.com/ikart/storefront/pkg/httputil"
	"github.com/ikart/storefront/pkg/pagination"
)

// CatalogHandler handles HTTP requests for product listing and detail
// endpoints.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(c *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: c,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
//
// Query parameters: category (repeatable or comma separated), min_price,
// max_price, sort (price-asc, price-desc, newest, popularity), page,
// per_page. Filters apply before sorting, sorting before pagination.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var categories []string
	for _, raw := range q["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
	}

	minPrice, err := parsePriceBound(q.Get("min_price"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("min_price must be a number"), h.logger)
		return
	}
	maxPrice, err := parsePriceBound(q.Get("max_price"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("max_price must be a number"), h.logger)
		return
	}

	products := catalog.Filter(h.catalog.List(), categories, minPrice, maxPrice)
	catalog.Sort(products, catalog.ParseSortKey(q.Get("sort")))

	params := pagination.FromRequest(r)
	page := catalog.Paginate(products, params.Page, params.PerPage)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(page, len(products), params),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok := h.catalog.Find(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Categories()})
}

func parsePriceBound(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
