// Package engine implements the cart and wishlist reconciliation rules.
// Every operation is pure: it takes state snapshots in, returns new snapshots
// out, and never mutates its inputs. Persistence and transport live elsewhere.
package engine

import (
	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/pkg/errors"
)

// ProductFinder resolves a product id against the live catalog.
type ProductFinder interface {
	Find(id string) (domain.Product, bool)
}

// AddToCart adds one unit of the product to the cart, or increments the
// existing line. Quantities never exceed the product's current stock: an
// increment past stock clamps and reports NoticeStockLimit. Unknown and
// out-of-stock products fail closed with the cart unchanged.
func AddToCart(cart domain.Cart, productID string, finder ProductFinder) (domain.Cart, Notice, error) {
	product, ok := finder.Find(productID)
	if !ok {
		return cart, NoticeNone, errors.NotFound("product", productID)
	}
	if !product.InStock() {
		return cart, NoticeNone, errors.OutOfStock(productID)
	}

	next := cart.Clone()
	idx := next.FindLineIndex(productID)
	if idx < 0 {
		next.Lines = append(next.Lines, domain.CartLine{
			ProductID: product.ID,
			Quantity:  1,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Stock:     product.Stock,
		})
		return next, NoticeAdded, nil
	}

	line := &next.Lines[idx]
	if line.Quantity >= product.Stock {
		line.Quantity = product.Stock
		line.Stock = product.Stock
		return next, NoticeStockLimit, nil
	}
	line.Quantity++
	line.Stock = product.Stock
	return next, NoticeUpdated, nil
}

// SetLineQuantity sets the quantity of an existing cart line. A quantity of
// zero or less removes the line; a quantity above the product's stock clamps
// to stock with NoticeStockLimit. Setting a quantity for a product that has
// no line is a no-op, not an error: the line may have been removed by another
// view since the caller last looked.
func SetLineQuantity(cart domain.Cart, productID string, quantity int, finder ProductFinder) (domain.Cart, Notice, error) {
	idx := cart.FindLineIndex(productID)
	if idx < 0 {
		return cart.Clone(), NoticeNone, nil
	}

	if quantity <= 0 {
		return RemoveFromCart(cart, productID)
	}

	next := cart.Clone()
	line := &next.Lines[idx]

	// A line whose product has left the catalog keeps its last-known stock
	// as the clamp ceiling.
	stock := line.Stock
	if product, ok := finder.Find(productID); ok {
		stock = product.Stock
		line.Stock = product.Stock
	}

	if quantity > stock {
		line.Quantity = stock
		if line.Quantity <= 0 {
			return RemoveFromCart(cart, productID)
		}
		return next, NoticeStockLimit, nil
	}

	line.Quantity = quantity
	return next, NoticeUpdated, nil
}

// RemoveFromCart drops the product's line. Removing an absent line succeeds
// and returns no notice, so retries and double-clicks are harmless.
func RemoveFromCart(cart domain.Cart, productID string) (domain.Cart, Notice, error) {
	next := cart.Clone()
	idx := next.FindLineIndex(productID)
	if idx < 0 {
		return next, NoticeNone, nil
	}
	next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
	return next, NoticeRemoved, nil
}

// ToggleWishlist flips the product's wishlist membership. Unknown products
// fail closed; out-of-stock products may still be wished for.
func ToggleWishlist(wishlist domain.Wishlist, productID string, finder ProductFinder) (domain.Wishlist, Notice, error) {
	product, ok := finder.Find(productID)
	if !ok {
		return wishlist, NoticeNone, errors.NotFound("product", productID)
	}

	next := wishlist.Clone()
	for i := range next.Entries {
		if next.Entries[i].ProductID == productID {
			next.Entries = append(next.Entries[:i], next.Entries[i+1:]...)
			return next, NoticeRemovedFromWishlist, nil
		}
	}

	next.Entries = append(next.Entries, domain.WishlistEntry{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
	})
	return next, NoticeAddedToWishlist, nil
}

// MoveToCart moves a wishlisted product into the cart as a single atomic
// step: the wishlist entry is removed only if the cart add succeeds. When the
// add fails (unknown product, out of stock) both snapshots come back
// unchanged. Moving a product that is not on the wishlist behaves like a
// plain cart add.
func MoveToCart(cart domain.Cart, wishlist domain.Wishlist, productID string, finder ProductFinder) (domain.Cart, domain.Wishlist, Notice, error) {
	nextCart, notice, err := AddToCart(cart, productID, finder)
	if err != nil {
		return cart, wishlist, NoticeNone, err
	}

	nextWishlist := wishlist.Clone()
	for i := range nextWishlist.Entries {
		if nextWishlist.Entries[i].ProductID == productID {
			nextWishlist.Entries = append(nextWishlist.Entries[:i], nextWishlist.Entries[i+1:]...)
			break
		}
	}
	return nextCart, nextWishlist, notice, nil
}
