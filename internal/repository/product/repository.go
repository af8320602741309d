package product

import (
	"context"

	"productdesk/internal/domain"
)

// Repository persists products. Lookups, updates and deletes of an unknown id
// return domain.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
