package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ikart/storefront/internal/engine"
	"github.com/ikart/storefront/internal/wishlist"
	"github.com/ikart/storefront/pkg/httputil"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *wishlist.Service
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *wishlist.Service, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// WishlistResponse pairs the resolved wishlist items with the notice the
// operation produced.
type WishlistResponse struct {
	Items  []wishlist.Item `json:"items"`
	Notice engine.Notice   `json:"notice,omitempty"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	items, err := h.service.Get(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: WishlistResponse{Items: items}})
}

// Toggle handles POST /api/v1/wishlist/items/{productId}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	res, err := h.service.Toggle(r.Context(), ownerID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items, err := h.service.Get(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: WishlistResponse{Items: items, Notice: res.Notice}})
}
