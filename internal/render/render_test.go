package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
)

func sample() (model.Product, model.Derived) {
	p := model.Product{
		Key:             "B001",
		DisplayName:     "Westinghouse WGen9500DF",
		Link:            "https://example.com/p/B001",
		AffiliateURL:    "https://amzn.to/B001",
		LinkText:        "Buy Now",
		RunningWattage:  9500,
		StartingWattage: 12500,
		CapacityWh:      0,
		Condition:       "New",
		Price:           "$1,099.00",
	}
	d := model.Derived{
		Tier:           "large",
		Brand:          "westinghouse",
		FuelType:       "dual_fuel",
		FormattedPrice: "$1,099.00",
		PricePerWatt:   "$0.116",
	}
	return p, d
}

func TestRowDataAttributeContract(t *testing.T) {
	p, d := sample()
	row := Row(p, d)

	// Each of these is load-bearing for the client-side filter script.
	for _, attr := range []string{
		`data-key="B001"`,
		`data-tier="large"`,
		`data-condition="new"`,
		`data-capacity="0"`,
		`data-wattage="9500"`,
		`data-fuel-type="dual_fuel"`,
		`data-brand="westinghouse"`,
	} {
		assert.Contains(t, row, attr)
	}
}

func TestRowStructure(t *testing.T) {
	p, d := sample()
	row := Row(p, d)

	assert.True(t, strings.HasPrefix(row, "<tr "))
	assert.True(t, strings.HasSuffix(row, "</tr>"))
	assert.Contains(t, row, `<td class="product-name">`)
	assert.Contains(t, row, `<td class="price">$1,099.00</td>`)
	assert.Contains(t, row, `<td class="price-per-watt">$0.116</td>`)
	assert.Contains(t, row, `class="buy-link"`)
}

func TestRowWithoutLinks(t *testing.T) {
	p, d := sample()
	p.Link = ""
	p.AffiliateURL = ""
	row := Row(p, d)

	assert.NotContains(t, row, "<a ")
	assert.Contains(t, row, `<td class="product-name">Westinghouse WGen9500DF</td>`)
}

func TestRowEscapesFreeText(t *testing.T) {
	p, d := sample()
	p.DisplayName = `Generator <script>alert("x")</script>`
	row := Row(p, d)

	assert.NotContains(t, row, "<script>")
	assert.Contains(t, row, "&lt;script&gt;")
}

func TestRowsPreserveInputOrder(t *testing.T) {
	products := []model.Product{
		{Key: "z-last", DisplayName: "ZZZ"},
		{Key: "a-first", DisplayName: "AAA"},
	}
	derived := []model.Derived{
		{Tier: "small"},
		{Tier: "large"},
	}

	out := Rows(products, derived)
	assert.Less(t, strings.Index(out, "z-last"), strings.Index(out, "a-first"),
		"render order must equal input order; sorting is a client concern")
}
