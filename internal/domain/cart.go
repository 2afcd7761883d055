package domain

import "time"

// Cart holds the items of exactly one user. A cart is created lazily on the
// first add and must be created together with its first item; removals may
// later leave it with zero items.
type Cart struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// CartItem is a (product, quantity) pair keyed by product within one cart.
// Product is populated only when the cart is fetched with expansion.
type CartItem struct {
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt,omitzero"`
}
