// Package store defines the persistence surface for per-owner storefront
// state. Records are keyed by an opaque owner id for carts and wishlists,
// by session id for sessions, plus a single shared user registry.
package store

import (
	"context"

	"github.com/ikart/storefront/internal/domain"
)

// Store is the full persistence interface.
type Store interface {
	CartStore
	WishlistStore
	UserStore
	SessionStore

	// SaveCartAndWishlist writes both collections for the owner in one
	// round trip so a move between them cannot be half-persisted.
	SaveCartAndWishlist(ctx context.Context, ownerID string, cart domain.Cart, wishlist domain.Wishlist) error
}

// CartStore persists carts keyed by owner id. A missing record reads as an
// empty cart, not an error.
type CartStore interface {
	Cart(ctx context.Context, ownerID string) (domain.Cart, error)
	SaveCart(ctx context.Context, ownerID string, cart domain.Cart) error
	DeleteCart(ctx context.Context, ownerID string) error
}

// WishlistStore persists wishlists keyed by owner id. A missing record reads
// as an empty wishlist.
type WishlistStore interface {
	Wishlist(ctx context.Context, ownerID string) (domain.Wishlist, error)
	SaveWishlist(ctx context.Context, ownerID string, wishlist domain.Wishlist) error
}

// UserStore persists the shared user registry as one record.
type UserStore interface {
	Users(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error
}

// SessionStore persists login sessions keyed by session id.
type SessionStore interface {
	Session(ctx context.Context, sessionID string) (domain.Session, error)
	SaveSession(ctx context.Context, session domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}
