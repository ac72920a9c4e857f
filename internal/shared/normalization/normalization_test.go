package normalization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScreen(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"customer":      "customers",
		" Customers ":   "customers",
		"product":       "products",
		"productB":      "categories",
		"product_b":     "categories",
		"productBList":  "categories",
		"category":      "categories",
		"custom-screen": "custom-screen",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, NormalizeScreen(input), "input %q", input)
	}
	assert.True(t, IsValidScreen("Product"))
	assert.False(t, IsValidScreen("orders"))
	assert.Equal(t, []string{"customers", "products", "categories"}, AllScreens())
}

func TestConversions(t *testing.T) {
	raw, err := DecodeObject([]byte(`{"id":42,"price":"12,000","ea":3.7,"name":" kim ","flag":true}`))
	require.NoError(t, err)

	assert.Equal(t, "42", AsString(raw["id"]))
	assert.Equal(t, "kim", AsString(raw["name"]))
	assert.Equal(t, "true", AsString(raw["flag"]))
	assert.Equal(t, "", AsString(nil))
	assert.Equal(t, int64(12000), AsInt64(raw["price"]))
	assert.Equal(t, 3, AsInt(raw["ea"]))
	assert.Equal(t, 3.7, AsFloat64(raw["ea"]))
	assert.Equal(t, "1.5", AsString(1.5))
	assert.Equal(t, int64(7), AsInt64(json.Number("7")))
	assert.Nil(t, AsMap("x"))

	_, err = DecodeObject([]byte(`[1]`))
	assert.Error(t, err)
}

func TestAsInt64KeepsLargeIntegersExact(t *testing.T) {
	raw, err := DecodeObject([]byte(`{"id":9007199254740993,"text":"9,007,199,254,740,993","half":"12.9"}`))
	require.NoError(t, err)

	assert.Equal(t, int64(9007199254740993), AsInt64(raw["id"]))
	assert.Equal(t, int64(9007199254740993), AsInt64(raw["text"]))
	assert.Equal(t, int64(12), AsInt64(raw["half"]))
	assert.Equal(t, "9007199254740993", AsString(raw["id"]))
}
