// Package redis implements store.Store on a Redis key/value namespace. Each
// record is a single JSON blob; reads treat missing or corrupt blobs as empty
// collections so one bad write can never brick an owner's storefront.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ikart/storefront/internal/domain"
	apperrors "github.com/ikart/storefront/pkg/errors"
)

const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
	sessionKeyPrefix  = "session:"
	usersKey          = "users"
)

// Store is the Redis-backed persistence layer.
type Store struct {
	client  *redis.Client
	cartTTL time.Duration
}

// NewStore creates a Redis-backed store. A zero cartTTL keeps carts and
// wishlists forever; sessions and the user registry never expire regardless.
func NewStore(client *redis.Client, cartTTL time.Duration) *Store {
	return &Store{
		client:  client,
		cartTTL: cartTTL,
	}
}

// Cart retrieves the owner's cart. Missing and malformed records both read
// as an empty cart; loaded carts are normalized before use.
func (s *Store) Cart(ctx context.Context, ownerID string) (domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+ownerID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, nil
	}
	return cart.Normalize(), nil
}

// SaveCart persists the owner's cart with the configured TTL.
func (s *Store) SaveCart(ctx context.Context, ownerID string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+ownerID, data, s.cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// DeleteCart removes the owner's cart record.
func (s *Store) DeleteCart(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+ownerID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// Wishlist retrieves the owner's wishlist, reading missing and malformed
// records as empty.
func (s *Store) Wishlist(ctx context.Context, ownerID string) (domain.Wishlist, error) {
	data, err := s.client.Get(ctx, wishlistKeyPrefix+ownerID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Wishlist{}, nil
		}
		return domain.Wishlist{}, fmt.Errorf("redis get wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return domain.Wishlist{}, nil
	}
	return wishlist.Normalize(), nil
}

// SaveWishlist persists the owner's wishlist with the configured TTL.
func (s *Store) SaveWishlist(ctx context.Context, ownerID string, wishlist domain.Wishlist) error {
	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := s.client.Set(ctx, wishlistKeyPrefix+ownerID, data, s.cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}
	return nil
}

// SaveCartAndWishlist writes both records in one pipelined transaction so a
// wishlist-to-cart move lands on both sides or neither.
func (s *Store) SaveCartAndWishlist(ctx context.Context, ownerID string, cart domain.Cart, wishlist domain.Wishlist) error {
	cartData, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	wishlistData, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, cartKeyPrefix+ownerID, cartData, s.cartTTL)
	pipe.Set(ctx, wishlistKeyPrefix+ownerID, wishlistData, s.cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save cart and wishlist: %w", err)
	}
	return nil
}

// Users retrieves the shared user registry. Missing and malformed records
// read as an empty registry.
func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	data, err := s.client.Get(ctx, usersKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.User{}, nil
		}
		return nil, fmt.Errorf("redis get users: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// SaveUsers persists the full user registry. The registry never expires.
func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := s.client.Set(ctx, usersKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set users: %w", err)
	}
	return nil
}

// Session retrieves a login session by id. A missing session is a NotFound
// error, unlike carts: callers must distinguish logged-out from empty.
func (s *Store) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Session{}, apperrors.NotFound("session", sessionID)
		}
		return domain.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, apperrors.NotFound("session", sessionID)
	}
	return session, nil
}

// SaveSession persists a login session. Sessions have no TTL; they live
// until an explicit logout.
func (s *Store) SaveSession(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// DeleteSession removes a session record. Deleting an absent session is
// not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
