// Package render turns canonical products into the table-row fragments the
// host document embeds. Output order always equals input order; sorting and
// filtering happen client-side off the data attributes.
package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
)

// Row renders one product as a self-contained <tr> fragment. The data
// attributes form the contract with the client-side sort/filter script;
// dropping one silently breaks filtering, so they are always emitted even
// when empty.
func Row(p model.Product, d model.Derived) string {
	var sb strings.Builder

	sb.WriteString(`<tr data-key="` + attr(p.Key) + `"`)
	sb.WriteString(` data-tier="` + attr(d.Tier) + `"`)
	sb.WriteString(` data-condition="` + attr(strings.ToLower(p.Condition)) + `"`)
	sb.WriteString(` data-capacity="` + num(p.CapacityWh) + `"`)
	sb.WriteString(` data-wattage="` + num(p.RunningWattage) + `"`)
	sb.WriteString(` data-fuel-type="` + attr(d.FuelType) + `"`)
	sb.WriteString(` data-brand="` + attr(d.Brand) + `">`)

	// The name cell carries its own class: it is the one column styled and
	// targeted differently from the plain data columns.
	sb.WriteString(`<td class="product-name">`)
	if p.Link != "" {
		sb.WriteString(`<a href="` + attr(p.Link) + `" target="_blank" rel="noopener">` + html.EscapeString(p.DisplayName) + `</a>`)
	} else {
		sb.WriteString(html.EscapeString(p.DisplayName))
	}
	sb.WriteString(`</td>`)

	cell(&sb, "", num(p.RunningWattage))
	cell(&sb, "", num(p.StartingWattage))
	cell(&sb, "", num(p.CapacityWh))
	cell(&sb, "", html.EscapeString(d.FuelType))
	cell(&sb, "", html.EscapeString(p.Condition))
	cell(&sb, "price", html.EscapeString(d.FormattedPrice))
	cell(&sb, "price-per-watt", html.EscapeString(d.PricePerWatt))

	sb.WriteString(`<td>`)
	if p.AffiliateURL != "" {
		sb.WriteString(`<a class="buy-link" href="` + attr(p.AffiliateURL) + `" target="_blank" rel="nofollow noopener">` + html.EscapeString(p.LinkText) + `</a>`)
	}
	sb.WriteString(`</td>`)

	sb.WriteString(`</tr>`)
	return sb.String()
}

// Rows renders the whole sequence in input order.
func Rows(products []model.Product, derived []model.Derived) string {
	var sb strings.Builder
	for i, p := range products {
		sb.WriteString(Row(p, derived[i]))
		sb.WriteString("\n")
	}
	return sb.String()
}

func cell(sb *strings.Builder, class, content string) {
	if class != "" {
		sb.WriteString(`<td class="` + class + `">`)
	} else {
		sb.WriteString(`<td>`)
	}
	sb.WriteString(content)
	sb.WriteString(`</td>`)
}

func attr(s string) string {
	return html.EscapeString(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
