package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"productdesk/internal/domain"
)

// maxPriceDigits bounds the digits on either side of the decimal point.
// Prices have no upper value limit, but every accepted price has to fit in a
// plain string of reasonable length.
const maxPriceDigits = 1000

const notANumber = "The price field must be a number."

type productForm struct {
	Name  string `json:"name" validate:"required,max=255"`
	Price string `json:"price" validate:"required,numeric"`
}

// Product validates a raw product payload. On success it returns the
// sanitized input; otherwise the error is Errors keyed by field. Keys other
// than name, price and description are ignored.
func Product(raw map[string]any) (domain.ProductInput, error) {
	errs := Errors{}

	name, _, ok := stringField(raw, "name")
	if !ok {
		errs.Add("name", mustBeString("name"))
	}

	price, msg := priceField(raw)
	if msg != "" {
		errs.Add("price", msg)
	}

	description, ok := descriptionField(raw)
	if !ok {
		errs.Add("description", mustBeString("description"))
	}

	form := productForm{
		Name:  strings.TrimSpace(name),
		Price: price,
	}
	collect(form, errs)

	if len(errs) > 0 {
		return domain.ProductInput{}, errs
	}

	amount, err := decimal.NewFromString(form.Price)
	if err != nil {
		errs.Add("price", notANumber)
		return domain.ProductInput{}, errs
	}
	if msg := priceDigits(amount); msg != "" {
		errs.Add("price", msg)
		return domain.ProductInput{}, errs
	}

	return domain.ProductInput{
		Name:        form.Name,
		Price:       amount.Round(2),
		Description: description,
	}, nil
}

// priceField accepts strings and JSON numbers. Numbers that arrive already
// decoded are formatted back into plain decimal notation. A non-empty second
// result is the message for an unusable value.
func priceField(raw map[string]any) (string, string) {
	v, exists := raw["price"]
	if !exists || v == nil {
		return "", ""
	}
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p), ""
	case json.Number:
		d, err := decimal.NewFromString(p.String())
		if err != nil {
			return "", notANumber
		}
		// Exponent notation expands on String, so the size is checked first.
		if msg := priceDigits(d); msg != "" {
			return "", msg
		}
		return d.String(), ""
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), ""
	case int:
		return strconv.Itoa(p), ""
	case int64:
		return strconv.FormatInt(p, 10), ""
	default:
		return "", notANumber
	}
}

// priceDigits reports whether d has more than maxPriceDigits digits before or
// after the decimal point, without expanding it.
func priceDigits(d decimal.Decimal) string {
	exp := int64(d.Exponent())
	intDigits := int64(d.NumDigits()) + exp
	if intDigits > maxPriceDigits || -exp > maxPriceDigits {
		return fmt.Sprintf("The price field must not have more than %d digits.", maxPriceDigits)
	}
	return ""
}

// descriptionField normalizes "" and null to nil. Non-empty content is kept
// exactly as sent.
func descriptionField(raw map[string]any) (*string, bool) {
	s, present, ok := stringField(raw, "description")
	if !ok {
		return nil, false
	}
	if !present || s == "" {
		return nil, true
	}
	return &s, true
}
