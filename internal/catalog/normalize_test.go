package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSVQuotedDelimiter(t *testing.T) {
	csv := "title,output_wattage,price,affiliate_link\n" +
		"\"Honda EU2200i, Super Quiet\",1800,\"$1,099.00\",https://amzn.to/honda\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Honda EU2200i, Super Quiet", p.DisplayName)
	assert.Equal(t, 1800.0, p.RunningWattage)
	assert.Equal(t, "$1,099.00", p.Price)
	assert.Equal(t, "https://amzn.to/honda", p.AffiliateURL)
}

func TestFromCSVShortAndBlankRows(t *testing.T) {
	csv := "asin,title,output_wattage,fuel_type\n" +
		"B001,Generator One,2000\n" +
		"\n" +
		"   \n" +
		"B002,Generator Two,900,propane\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "", products[0].FuelType) // missing trailing field pads empty
	assert.Equal(t, "propane", products[1].FuelType)
}

func TestFromCSVHeaderRequired(t *testing.T) {
	_, err := NewDefaultNormalizer().FromCSV("")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = NewDefaultNormalizer().FromCSV("   \n  \n")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestFromCSVHeaderOnly(t *testing.T) {
	products, err := NewDefaultNormalizer().FromCSV("asin,title,price\n")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFromCSVFieldAliases(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"output_wattage", "output_wattage\n1200\n"},
		{"running_wattage", "running_wattage\n1200\n"},
		{"wattage", "wattage\n1200\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := NewDefaultNormalizer().FromCSV(tt.csv)
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, 1200.0, products[0].RunningWattage)
		})
	}
}

func TestNumericCoercionNeverErrors(t *testing.T) {
	csv := "asin,output_wattage,battery_capacity,price\n" +
		"B001,not-a-number,,garbage\n" +
		"B002,nan,-5,$0\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	require.Len(t, products, 2)

	for _, p := range products {
		assert.Equal(t, 0.0, p.RunningWattage)
		assert.Equal(t, "", p.Price, "invalid or zero price is no price, not an error")
	}
	assert.Equal(t, -5.0, products[1].CapacityWh)
}

func TestDefaultsAndKeys(t *testing.T) {
	csv := "title,link\n" +
		"No Id Product,https://example.com/p1\n" +
		"No Id No Link,\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "https://example.com/p1", products[0].Key)
	assert.Equal(t, "row-2", products[1].Key)
	for _, p := range products {
		assert.NotEmpty(t, p.Key)
		assert.Equal(t, "New", p.Condition)
		assert.Equal(t, "Buy Now", p.LinkText)
	}
}

func TestKeyCollisionGetsSuffix(t *testing.T) {
	csv := "asin,title\nB001,First\nB001,Second\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B001", products[0].Key)
	assert.Equal(t, "B001-1", products[1].Key)
}

func TestQuoteStrippingIsDefensive(t *testing.T) {
	// A value that reaches this stage already quoted loses exactly one layer.
	csv := "title,condition\n\"Quoted Name\",\"Used\"\n"

	products, err := NewDefaultNormalizer().FromCSV(csv)
	require.NoError(t, err)
	assert.Equal(t, "Quoted Name", products[0].DisplayName)
	assert.Equal(t, "Used", products[0].Condition)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`[
		{"asin": "B001", "title": "JSON Product", "output_wattage": 750, "price": "$99.99"},
		{"asin": "B002", "title": "Nulls", "output_wattage": null, "price": null}
	]`)

	products, err := NewDefaultNormalizer().FromJSON(data)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 750.0, products[0].RunningWattage)
	assert.Equal(t, "$99.99", products[0].Price)
	assert.Equal(t, 0.0, products[1].RunningWattage)
	assert.Equal(t, "", products[1].Price)
}

func TestFromJSONMalformed(t *testing.T) {
	_, err := NewDefaultNormalizer().FromJSON([]byte(`{"not": "an array"}`))
	assert.True(t, errors.Is(err, ErrMalformedInput))
}
