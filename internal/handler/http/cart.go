package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ikart/storefront/internal/cart"
	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/internal/engine"
	apperrors "github.com/ikart/storefront/pkg/errors"
	"github.com/ikart/storefront/pkg/httputil"
	"github.com/ikart/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *cart.Service
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *cart.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// SetQuantityRequest is the JSON request body for setting a line's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Response DTOs ---

// CartResponse pairs the cart with the notice the operation produced.
type CartResponse struct {
	Cart   domain.Cart   `json:"cart"`
	Notice engine.Notice `json:"notice,omitempty"`
}

// SummaryResponse is the cart with its computed totals.
type SummaryResponse struct {
	Cart   domain.Cart   `json:"cart"`
	Totals engine.Totals `json:"totals"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	c, err := h.service.Get(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{Cart: c}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	res, err := h.service.Add(r.Context(), ownerID, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{Cart: res.Cart, Notice: res.Notice}})
}

// SetQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	res, err := h.service.SetQuantity(r.Context(), ownerID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{Cart: res.Cart, Notice: res.Notice}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	res, err := h.service.Remove(r.Context(), ownerID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{Cart: res.Cart, Notice: res.Notice}})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), ownerID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// GetSummary handles GET /api/v1/cart/summary
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SummaryResponse{Cart: summary.Cart, Totals: summary.Totals}})
}

// GetBadges handles GET /api/v1/badges
func (h *CartHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())

	badges, err := h.service.Badges(r.Context(), ownerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: badges})
}

// MoveFromWishlist handles POST /api/v1/wishlist/items/{productId}/move-to-cart
func (h *CartHandler) MoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := ownerIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	res, err := h.service.MoveFromWishlist(r.Context(), ownerID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{Cart: res.Cart, Notice: res.Notice}})
}
