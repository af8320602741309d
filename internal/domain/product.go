package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry managed from the products screen.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MarshalJSON always writes the price with two decimal places.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain: plain(p), Price: p.Price.StringFixed(2)})
}

// ProductInput is the closed set of fields a client may write. Identity and
// timestamps are always assigned by storage.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description *string
}
