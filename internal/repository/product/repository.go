package product

import (
	"context"

	"shoppyglobe/internal/domain"
)

// UpdateInput carries the mutable product fields. Nil fields are left as-is.
type UpdateInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Stock       *int
	Images      []string
}

// Repository persists and fetches catalog products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
