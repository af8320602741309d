package product

import (
	"context"

	"productdesk/internal/domain"
	productrepo "productdesk/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a validated product.
func (s *Service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return s.repo.Create(ctx, in)
}

// Update rewrites every editable field of product id.
func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
