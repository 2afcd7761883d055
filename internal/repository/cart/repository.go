package cart

import (
	"context"

	"shoppyglobe/internal/domain"
)

// Repository persists per-user carts and their items.
//
// Cart mutations follow a find-then-write pattern at the service layer, so
// two concurrent mutations of the same cart race last-write-wins. There is no
// revision token; this mirrors the documented behavior of the API.
type Repository interface {
	// GetByUser returns the user's cart with its items, product unexpanded.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// GetByUserExpanded returns the user's cart with each item's product
	// resolved to full product details.
	GetByUserExpanded(ctx context.Context, userID string) (*domain.Cart, error)
	// CreateWithItem creates the user's cart seeded with a single item. A new
	// cart is never created empty.
	CreateWithItem(ctx context.Context, userID, productID string, quantity int) error
	// UpsertItem appends the item, or increments the quantity of an existing
	// item with the same product.
	UpsertItem(ctx context.Context, cartID, productID string, quantity int) error
	// SetItemQuantity overwrites the item's quantity. ErrNotFound when the
	// cart holds no such item.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// DeleteItem removes the item. ErrNotFound when the cart holds no such
	// item. The cart row survives even when this empties it.
	DeleteItem(ctx context.Context, cartID, productID string) error
}
