// Package seed fills an empty database with a demo login and a batch of
// generated products for manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"productdesk/internal/domain"
	"productdesk/internal/factory"
)

// Registrar creates login accounts.
type Registrar interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
}

// Catalog is the product store being seeded.
type Catalog interface {
	factory.Creator
	Count(ctx context.Context) (int, error)
}

type Options struct {
	UserEmail    string
	UserPassword string
	Products     int
	// Seed makes the generated products reproducible. Zero picks one at random.
	Seed int64
}

type Result struct {
	UserCreated     bool
	ProductsCreated int
}

// Apply is idempotent: an existing demo user is left alone and products are
// only generated while the catalogue is empty.
func Apply(ctx context.Context, users Registrar, products Catalog, opts Options) (Result, error) {
	var res Result

	if opts.UserEmail != "" {
		_, err := users.Register(ctx, "Demo User", opts.UserEmail, opts.UserPassword)
		switch {
		case err == nil:
			res.UserCreated = true
		case errors.Is(err, domain.ErrAlreadyExists):
		default:
			return res, fmt.Errorf("register demo user: %w", err)
		}
	}

	if opts.Products <= 0 {
		return res, nil
	}
	count, err := products.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return res, nil
	}

	base := factory.NewProduct(opts.Seed)
	expensive := opts.Products / 5
	cheap := opts.Products / 5
	bare := opts.Products / 10
	batches := []struct {
		f *factory.ProductFactory
		n int
	}{
		{base.Expensive(), expensive},
		{base.Cheap(), cheap},
		{base.WithoutDescription(), bare},
		{base, opts.Products - expensive - cheap - bare},
	}
	for _, b := range batches {
		created, err := b.f.CreateMany(ctx, products, b.n)
		res.ProductsCreated += len(created)
		if err != nil {
			return res, fmt.Errorf("seed products: %w", err)
		}
	}
	return res, nil
}
