// Package wishlist implements the business logic for wishlist operations.
package wishlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/internal/engine"
	"github.com/ikart/storefront/internal/event"
	"github.com/ikart/storefront/internal/store"
	apperrors "github.com/ikart/storefront/pkg/errors"
)

// Item is a wishlist entry resolved against the live catalog for display:
// current price, stock flag, and whether the product still exists.
type Item struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	InStock   bool            `json:"in_stock"`
	Unlisted  bool            `json:"unlisted,omitempty"`
}

// Result pairs the post-mutation wishlist with the notice produced.
type Result struct {
	Wishlist domain.Wishlist
	Notice   engine.Notice
}

// Service implements wishlist operations on top of the store and the engine.
type Service struct {
	store    store.Store
	finder   engine.ProductFinder
	producer *event.Producer
	logger   *slog.Logger
}

// NewService creates a new wishlist service.
func NewService(st store.Store, finder engine.ProductFinder, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		finder:   finder,
		producer: producer,
		logger:   logger,
	}
}

// Get returns the owner's wishlist resolved for display. Entries whose
// product has left the catalog are kept but flagged unlisted, showing their
// add-time snapshot.
func (s *Service) Get(ctx context.Context, ownerID string) ([]Item, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("owner id is required")
	}

	wishlist, err := s.store.Wishlist(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	items := make([]Item, 0, wishlist.Len())
	for _, entry := range wishlist.Entries {
		product, ok := s.finder.Find(entry.ProductID)
		if !ok {
			items = append(items, Item{
				ProductID: entry.ProductID,
				Name:      entry.Name,
				Price:     entry.Price,
				Image:     entry.Image,
				Unlisted:  true,
			})
			continue
		}
		items = append(items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			InStock:   product.InStock(),
		})
	}
	return items, nil
}

// Toggle flips the product's wishlist membership for the owner.
func (s *Service) Toggle(ctx context.Context, ownerID, productID string) (Result, error) {
	if ownerID == "" {
		return Result{}, apperrors.InvalidInput("owner id is required")
	}
	if productID == "" {
		return Result{}, apperrors.InvalidInput("product id is required")
	}

	wishlist, err := s.store.Wishlist(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("get wishlist: %w", err)
	}

	next, notice, err := engine.ToggleWishlist(wishlist, productID, s.finder)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveWishlist(ctx, ownerID, next); err != nil {
		return Result{}, fmt.Errorf("save wishlist: %w", err)
	}

	if err := s.producer.PublishWishlistUpdated(ctx, ownerID, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("owner_id", ownerID),
		slog.String("product_id", productID),
		slog.String("notice", string(notice)),
	)

	return Result{Wishlist: next, Notice: notice}, nil
}
