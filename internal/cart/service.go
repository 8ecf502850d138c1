// Package cart implements the business logic for cart operations: loading
// persisted state, running the reconciliation engine, saving the result, and
// publishing domain events.
package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/internal/engine"
	"github.com/ikart/storefront/internal/event"
	"github.com/ikart/storefront/internal/store"
	apperrors "github.com/ikart/storefront/pkg/errors"
)

// Result pairs the post-mutation cart with the notice the mutation produced.
type Result struct {
	Cart   domain.Cart
	Notice engine.Notice
}

// Summary is the cart with its computed totals for the checkout view.
type Summary struct {
	Cart   domain.Cart
	Totals engine.Totals
}

// Service implements cart operations on top of the store and the engine.
type Service struct {
	store    store.Store
	finder   engine.ProductFinder
	producer *event.Producer
	logger   *slog.Logger
}

// NewService creates a new cart service.
func NewService(st store.Store, finder engine.ProductFinder, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		finder:   finder,
		producer: producer,
		logger:   logger,
	}
}

// Get retrieves the owner's cart. A never-written owner gets an empty cart.
func (s *Service) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, apperrors.InvalidInput("owner id is required")
	}
	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// Add adds one unit of the product to the owner's cart.
func (s *Service) Add(ctx context.Context, ownerID, productID string) (Result, error) {
	if ownerID == "" {
		return Result{}, apperrors.InvalidInput("owner id is required")
	}
	if productID == "" {
		return Result{}, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get cart: %w", err)
	}

	next, notice, err := engine.AddToCart(cart, productID, s.finder)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveCart(ctx, ownerID, next); err != nil {
		return Result{}, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, ownerID, next)

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("owner_id", ownerID),
		slog.String("product_id", productID),
		slog.String("notice", string(notice)),
	)

	return Result{Cart: next, Notice: notice}, nil
}

// SetQuantity sets the quantity of an existing cart line. Zero or negative
// removes the line; quantities above stock clamp.
func (s *Service) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (Result, error) {
	if ownerID == "" {
		return Result{}, apperrors.InvalidInput("owner id is required")
	}
	if productID == "" {
		return Result{}, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get cart: %w", err)
	}

	next, notice, err := engine.SetLineQuantity(cart, productID, quantity, s.finder)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveCart(ctx, ownerID, next); err != nil {
		return Result{}, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, ownerID, next)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("owner_id", ownerID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.String("notice", string(notice)),
	)

	return Result{Cart: next, Notice: notice}, nil
}

// Remove drops the product's line from the owner's cart. Removing an absent
// line succeeds.
func (s *Service) Remove(ctx context.Context, ownerID, productID string) (Result, error) {
	if ownerID == "" {
		return Result{}, apperrors.InvalidInput("owner id is required")
	}
	if productID == "" {
		return Result{}, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get cart: %w", err)
	}

	next, notice, err := engine.RemoveFromCart(cart, productID)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveCart(ctx, ownerID, next); err != nil {
		return Result{}, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, ownerID, next)

	s.logger.InfoContext(ctx, "product removed from cart",
		slog.String("owner_id", ownerID),
		slog.String("product_id", productID),
	)

	return Result{Cart: next, Notice: notice}, nil
}

// Clear removes the owner's cart record entirely.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperrors.InvalidInput("owner id is required")
	}

	if err := s.store.DeleteCart(ctx, ownerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("owner_id", ownerID))
	return nil
}

// Summary returns the cart with its totals computed against live catalog
// prices. Stale lines stay in the cart but are excluded from the figures.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	if ownerID == "" {
		return Summary{}, apperrors.InvalidInput("owner id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("get cart: %w", err)
	}

	totals := engine.ComputeTotals(cart, s.finder)
	if len(totals.Stale) > 0 {
		s.logger.WarnContext(ctx, "cart contains stale lines",
			slog.String("owner_id", ownerID),
			slog.Any("product_ids", totals.Stale),
		)
	}

	return Summary{Cart: cart, Totals: totals}, nil
}

// MoveFromWishlist moves a wishlisted product into the cart. Both collections
// are written in a single store round trip; a failed cart add leaves both
// untouched.
func (s *Service) MoveFromWishlist(ctx context.Context, ownerID, productID string) (Result, error) {
	if ownerID == "" {
		return Result{}, apperrors.InvalidInput("owner id is required")
	}
	if productID == "" {
		return Result{}, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get cart: %w", err)
	}
	wishlist, err := s.store.Wishlist(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get wishlist: %w", err)
	}

	nextCart, nextWishlist, notice, err := engine.MoveToCart(cart, wishlist, productID, s.finder)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveCartAndWishlist(ctx, ownerID, nextCart, nextWishlist); err != nil {
		return Result{}, fmt.Errorf("save cart and wishlist: %w", err)
	}

	s.publishUpdated(ctx, ownerID, nextCart)
	if err := s.producer.PublishWishlistUpdated(ctx, ownerID, nextWishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product moved from wishlist to cart",
		slog.String("owner_id", ownerID),
		slog.String("product_id", productID),
		slog.String("notice", string(notice)),
	)

	return Result{Cart: nextCart, Notice: notice}, nil
}

// Badges returns the owner's header badge counters.
func (s *Service) Badges(ctx context.Context, ownerID string) (engine.Badges, error) {
	if ownerID == "" {
		return engine.Badges{}, apperrors.InvalidInput("owner id is required")
	}

	cart, err := s.store.Cart(ctx, ownerID)
	if err != nil {
		return engine.Badges{}, fmt.Errorf("get cart: %w", err)
	}
	wishlist, err := s.store.Wishlist(ctx, ownerID)
	if err != nil {
		return engine.Badges{}, fmt.Errorf("get wishlist: %w", err)
	}

	return engine.BadgeCounts(cart, wishlist), nil
}

// publishUpdated emits cart.updated on a best-effort basis; a broker outage
// must not fail the storefront request.
func (s *Service) publishUpdated(ctx context.Context, ownerID string, cart domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, ownerID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
	}
}
