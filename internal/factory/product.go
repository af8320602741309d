// Package factory builds product values for seeding and tests.
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"productdesk/internal/domain"
)

// Creator persists a product. Both the product repository and the product
// service satisfy it.
type Creator interface {
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
}

type priceRange struct {
	min, max float64
}

// ProductFactory produces randomized ProductInput values. Variant methods
// return a new factory and leave the receiver untouched.
type ProductFactory struct {
	faker  *gofakeit.Faker
	price  priceRange
	states []func(*domain.ProductInput)
}

// NewProduct returns a factory seeded with seed. A zero seed picks a random
// one.
func NewProduct(seed int64) *ProductFactory {
	return &ProductFactory{
		faker: gofakeit.New(seed),
		price: priceRange{min: 10, max: 1000},
	}
}

func (f *ProductFactory) clone() *ProductFactory {
	states := make([]func(*domain.ProductInput), len(f.states))
	copy(states, f.states)
	return &ProductFactory{faker: f.faker, price: f.price, states: states}
}

// Expensive narrows prices to [500, 2000].
func (f *ProductFactory) Expensive() *ProductFactory {
	out := f.clone()
	out.price = priceRange{min: 500, max: 2000}
	return out
}

// Cheap narrows prices to [1, 50].
func (f *ProductFactory) Cheap() *ProductFactory {
	out := f.clone()
	out.price = priceRange{min: 1, max: 50}
	return out
}

// WithoutDescription forces the description to be absent.
func (f *ProductFactory) WithoutDescription() *ProductFactory {
	return f.State(func(in *domain.ProductInput) { in.Description = nil })
}

// State adds an override applied after the random defaults.
func (f *ProductFactory) State(fn func(*domain.ProductInput)) *ProductFactory {
	out := f.clone()
	out.states = append(out.states, fn)
	return out
}

// Make builds one product without persisting it.
func (f *ProductFactory) Make() domain.ProductInput {
	desc := f.faker.Paragraph(1, 3, 12, " ")
	in := domain.ProductInput{
		Name:        f.name(),
		Price:       f.randomPrice(),
		Description: &desc,
	}
	for _, state := range f.states {
		state(&in)
	}
	return in
}

// MakeMany builds n products without persisting them.
func (f *ProductFactory) MakeMany(n int) []domain.ProductInput {
	out := make([]domain.ProductInput, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Make())
	}
	return out
}

// Create builds one product and persists it through c.
func (f *ProductFactory) Create(ctx context.Context, c Creator) (*domain.Product, error) {
	return c.Create(ctx, f.Make())
}

// CreateMany builds and persists n products, stopping at the first failure.
func (f *ProductFactory) CreateMany(ctx context.Context, c Creator, n int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		p, err := f.Create(ctx, c)
		if err != nil {
			return out, fmt.Errorf("create product %d of %d: %w", i+1, n, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *ProductFactory) name() string {
	words := []string{f.faker.Word(), f.faker.Word(), f.faker.Word()}
	return strings.Join(words, " ")
}

func (f *ProductFactory) randomPrice() decimal.Decimal {
	p := decimal.NewFromFloat(f.faker.Float64Range(f.price.min, f.price.max)).Round(2)
	lo := decimal.NewFromFloat(f.price.min)
	hi := decimal.NewFromFloat(f.price.max)
	if p.LessThan(lo) {
		return lo
	}
	if p.GreaterThan(hi) {
		return hi
	}
	return p
}
