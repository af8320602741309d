package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() map[string]any {
	return map[string]any{
		"name":        "Test Product",
		"price":       json.Number("99.99"),
		"description": "Test description",
	}
}

func TestProduct_Valid(t *testing.T) {
	in, err := Product(validProduct())
	require.NoError(t, err)

	assert.Equal(t, "Test Product", in.Name)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("99.99")), "price %s", in.Price)
	require.NotNil(t, in.Description)
	assert.Equal(t, "Test description", *in.Description)
}

func TestProduct_Name(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		pass   bool
		expect string
	}{
		{"plain", "Valid Product Name", true, "Valid Product Name"},
		{"empty", "", false, ""},
		{"null", nil, false, ""},
		{"blank", "    ", false, ""},
		{"max length", strings.Repeat("a", 255), true, strings.Repeat("a", 255)},
		{"too long", strings.Repeat("a", 256), false, ""},
		{"digits", "Product with 123 numbers", true, "Product with 123 numbers"},
		{"specials", "Product with special chars !@#$%", true, "Product with special chars !@#$%"},
		{"padded", "   Product with spaces   ", true, "Product with spaces"},
		{"multibyte at limit", strings.Repeat("ą", 255), true, strings.Repeat("ą", 255)},
		{"not a string", 42, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validProduct()
			raw["name"] = tc.value

			in, err := Product(raw)
			if tc.pass {
				require.NoError(t, err)
				assert.Equal(t, tc.expect, in.Name)
				return
			}
			verrs, ok := AsErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)
			assert.True(t, verrs.Has("name"))
			assert.Len(t, verrs["name"], 1)
			assert.False(t, verrs.Has("price"))
		})
	}
}

func TestProduct_MissingName(t *testing.T) {
	raw := validProduct()
	delete(raw, "name")

	_, err := Product(raw)
	verrs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The name field is required."}, verrs["name"])
}

func TestProduct_Price(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		pass   bool
		expect string
	}{
		{"decimal", json.Number("99.99"), true, "99.99"},
		{"integer", json.Number("100"), true, "100"},
		{"small", json.Number("0.01"), true, "0.01"},
		{"large", json.Number("9999999.99"), true, "9999999.99"},
		{"zero", json.Number("0"), true, "0"},
		{"float", 149.99, true, "149.99"},
		{"string decimal", " 12.50 ", true, "12.5"},
		{"rounded", "1.005", true, "1.01"},
		{"word", "not-a-number", false, ""},
		{"empty", "", false, ""},
		{"null", nil, false, ""},
		{"two points", "99.99.99", false, ""},
		{"bool", true, false, ""},
		{"24 integer digits", "123456789012345678901234", true, "123456789012345678901234"},
		{"exponent", json.Number("1.5e3"), true, "1500"},
		{"max digits", strings.Repeat("9", maxPriceDigits), true, strings.Repeat("9", maxPriceDigits)},
		{"too many digits", strings.Repeat("9", maxPriceDigits+1), false, ""},
		{"huge exponent", json.Number("1e2000000"), false, ""},
		{"tiny exponent", json.Number("1e-2000000"), false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validProduct()
			raw["price"] = tc.value

			in, err := Product(raw)
			if tc.pass {
				require.NoError(t, err)
				assert.True(t, in.Price.Equal(decimal.RequireFromString(tc.expect)), "got %s", in.Price)
				return
			}
			verrs, ok := AsErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)
			assert.True(t, verrs.Has("price"))
			assert.False(t, verrs.Has("name"))
		})
	}
}

func TestProduct_PriceDigitsMessage(t *testing.T) {
	raw := validProduct()
	raw["price"] = json.Number("1e2000000")

	_, err := Product(raw)
	verrs, ok := AsErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	assert.Equal(t, []string{"The price field must not have more than 1000 digits."}, verrs["price"])
}

func TestProduct_Description(t *testing.T) {
	long := strings.Repeat("a", 1000)
	unicode := "Opis z emoji 🎉 i różnymi znakami ©®™ é"
	cases := []struct {
		name   string
		value  any
		expect *string
	}{
		{"plain", "Valid description", strPtr("Valid description")},
		{"empty", "", nil},
		{"null", nil, nil},
		{"long", long, &long},
		{"specials", "Description with special chars !@#$%^&*()", strPtr("Description with special chars !@#$%^&*()")},
		{"multiline", "Multi\nline\ndescription", strPtr("Multi\nline\ndescription")},
		{"unicode", unicode, &unicode},
		{"untrimmed", "  spaced  ", strPtr("  spaced  ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validProduct()
			raw["description"] = tc.value

			in, err := Product(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, in.Description)
		})
	}
}

func TestProduct_DescriptionNotString(t *testing.T) {
	raw := validProduct()
	raw["description"] = 12

	_, err := Product(raw)
	verrs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The description field must be a string."}, verrs["description"])
}

func TestProduct_ReportsEveryField(t *testing.T) {
	_, err := Product(map[string]any{
		"name":  "",
		"price": "invalid-price",
	})
	verrs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "The name field is required.", verrs.First()["name"])
	assert.Equal(t, "The price field must be a number.", verrs.First()["price"])
	assert.Contains(t, err.Error(), "name:")
	assert.Contains(t, err.Error(), "price:")
}

func TestProduct_IgnoresUnknownKeys(t *testing.T) {
	raw := validProduct()
	raw["id"] = 999
	raw["created_at"] = "2020-01-01"
	raw["updated_at"] = "2020-01-01"

	in, err := Product(raw)
	require.NoError(t, err)
	assert.Equal(t, "Test Product", in.Name)
}

func TestLogin(t *testing.T) {
	in, err := Login(map[string]any{"email": "  Admin@Example.com ", "password": "secret", "remember": "on"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", in.Email)
	assert.Equal(t, "secret", in.Password)
	assert.True(t, in.Remember)

	_, err = Login(map[string]any{"email": "nope"})
	verrs, ok := AsErrors(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("email"))
	assert.True(t, verrs.Has("password"))
}

func strPtr(s string) *string {
	return &s
}
