// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ikart/storefront/internal/domain"
	pkgkafka "github.com/ikart/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicWishlistUpdated = "storefront.wishlist.updated"
	TopicUserRegistered  = "storefront.user.registered"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeUser     = "user"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	OwnerID   string         `json:"owner_id"`
	Lines     []CartLineData `json:"lines"`
	ItemCount int            `json:"item_count"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	OwnerID string `json:"owner_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	OwnerID    string   `json:"owner_id"`
	ProductIDs []string `json:"product_ids"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, ownerID string, cart domain.Cart) error {
	lines := make([]CartLineData, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = CartLineData{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
		}
	}

	data := CartUpdatedData{
		OwnerID:   ownerID,
		Lines:     lines,
		ItemCount: cart.ItemCount(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, ownerID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("owner_id", ownerID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, ownerID string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, ownerID, AggregateTypeCart, SourceStorefront, CartClearedData{OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("owner_id", ownerID),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, ownerID string, wishlist domain.Wishlist) error {
	productIDs := make([]string, len(wishlist.Entries))
	for i, entry := range wishlist.Entries {
		productIDs[i] = entry.ProductID
	}

	data := WishlistUpdatedData{
		OwnerID:    ownerID,
		ProductIDs: productIDs,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, ownerID, AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("owner_id", ownerID),
		slog.Int("entries", wishlist.Len()),
	)

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user domain.User) error {
	data := UserRegisteredData{
		Email:    user.Email,
		Username: user.Username,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.Email, AggregateTypeUser, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("username", user.Username),
	)

	return nil
}
