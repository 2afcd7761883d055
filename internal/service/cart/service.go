package cart

import (
	"context"
	"errors"

	"shoppyglobe/internal/domain"
	cartrepo "shoppyglobe/internal/repository/cart"
)

var (
	// ErrProductNotFound is returned when adding a product that does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartNotFound is returned when mutating a cart that was never created.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when the cart holds no item for the product.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service applies add/update/remove operations to a user's cart while
// preserving the quantity and ownership invariants. All operations are scoped
// by the authenticated user's identifier.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUserExpanded(ctx context.Context, userID string) (*domain.Cart, error)
	CreateWithItem(ctx context.Context, userID, productID string, quantity int) error
	UpsertItem(ctx context.Context, cartID, productID string, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// Add puts quantity units of the product into the user's cart. A missing cart
// is created seeded with this item; an existing item for the same product has
// its quantity incremented, not overwritten.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		if err := s.repo.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		if err := s.repo.CreateWithItem(ctx, userID, productID, quantity); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.repo.GetByUser(ctx, userID)
}

// UpdateItem overwrites the quantity of an existing item. The quantity floor
// of 1 is enforced here as well, not just on insert.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if err := s.repo.SetItemQuantity(ctx, cart.ID, productID, quantity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return s.repo.GetByUser(ctx, userID)
}

// RemoveItem deletes the item for the product. Removal may leave the cart
// with zero items even though carts are never created empty.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return s.repo.GetByUser(ctx, userID)
}

// Get returns the user's cart with product details expanded. A user without a
// cart gets an empty-items result, not an error.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserExpanded(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{Items: []domain.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}
