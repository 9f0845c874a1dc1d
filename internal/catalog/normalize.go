package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
	"github.com/Bernardkinuthia/price-comparison-site/internal/observability"
)

// FieldAliases lists the accepted header names for each canonical field.
// Historical catalog exports disagree on naming (output_wattage vs
// running_wattage, price vs price_amount), so the mapping is configuration
// rather than code paths. First alias present in the header wins.
type FieldAliases struct {
	ID              []string
	Name            []string
	Link            []string
	AffiliateURL    []string
	LinkText        []string
	RunningWattage  []string
	StartingWattage []string
	CapacityWh      []string
	FuelType        []string
	Condition       []string
	Price           []string
	LastUpdated     []string
}

func DefaultFieldAliases() FieldAliases {
	return FieldAliases{
		ID:              []string{"asin", "id", "sku", "product_id"},
		Name:            []string{"title", "name", "product_name", "display_name"},
		Link:            []string{"link", "url", "product_url", "product_link"},
		AffiliateURL:    []string{"affiliate_link", "affiliate_url"},
		LinkText:        []string{"link_text", "button_text"},
		RunningWattage:  []string{"output_wattage", "running_wattage", "wattage", "running_watts"},
		StartingWattage: []string{"starting_wattage", "peak_wattage", "starting_watts", "surge_watts"},
		CapacityWh:      []string{"battery_capacity", "capacity_wh", "capacity"},
		FuelType:        []string{"fuel_type", "fuel", "engine_type"},
		Condition:       []string{"condition", "item_condition"},
		Price:           []string{"price", "price_amount", "current_price"},
		LastUpdated:     []string{"last_updated", "price_last_updated"},
	}
}

// Normalizer maps heterogeneous raw catalog input onto model.Product.
type Normalizer struct {
	aliases FieldAliases
}

func NewNormalizer(aliases FieldAliases) *Normalizer {
	return &Normalizer{aliases: aliases}
}

func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultFieldAliases())
}

// FromCSV normalizes one delimited-text block (header row + data rows).
// Returns ErrMalformedInput only when the header itself is unusable; an
// empty data section yields an empty slice.
func (n *Normalizer) FromCSV(text string) ([]model.Product, error) {
	header, rows, err := parseTable(text)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(cleanValue(h))] = i
	}

	products := make([]model.Product, 0, len(rows))
	seen := make(map[string]int)
	for i, row := range rows {
		get := func(aliases []string) string {
			for _, a := range aliases {
				pos, ok := index[a]
				if !ok {
					continue
				}
				// Short rows pad missing trailing fields with "".
				if pos >= len(row) {
					return ""
				}
				return cleanValue(row[pos])
			}
			return ""
		}
		products = append(products, n.build(get, i, seen))
	}
	observability.ProductsNormalized.Add(float64(len(products)))
	return products, nil
}

// FromJSON normalizes a JSON array of loosely-typed objects (legacy catalog
// exports). Field values may be strings, numbers, booleans or null.
func (n *Normalizer) FromJSON(data []byte) ([]model.Product, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	products := make([]model.Product, 0, len(raw))
	seen := make(map[string]int)
	for i, obj := range raw {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			fields[strings.ToLower(strings.TrimSpace(k))] = stringify(v)
		}
		get := func(aliases []string) string {
			for _, a := range aliases {
				if v, ok := fields[a]; ok {
					return cleanValue(v)
				}
			}
			return ""
		}
		products = append(products, n.build(get, i, seen))
	}
	observability.ProductsNormalized.Add(float64(len(products)))
	return products, nil
}

func (n *Normalizer) build(get func([]string) string, row int, seen map[string]int) model.Product {
	p := model.Product{
		DisplayName:      get(n.aliases.Name),
		Link:             get(n.aliases.Link),
		AffiliateURL:     get(n.aliases.AffiliateURL),
		LinkText:         get(n.aliases.LinkText),
		RunningWattage:   toFloat(get(n.aliases.RunningWattage)),
		StartingWattage:  toFloat(get(n.aliases.StartingWattage)),
		CapacityWh:       toFloat(get(n.aliases.CapacityWh)),
		FuelType:         get(n.aliases.FuelType),
		Condition:        get(n.aliases.Condition),
		PriceLastUpdated: get(n.aliases.LastUpdated),
	}
	if p.Condition == "" {
		p.Condition = "New"
	}
	if p.LinkText == "" {
		p.LinkText = "Buy Now"
	}
	if raw := get(n.aliases.Price); raw != "" {
		if _, ok := model.ParsePrice(raw); ok {
			p.Price = raw
		}
	}

	p.Key = n.key(get, row)
	// Keys must be unique within a run; a colliding explicit id gets a
	// positional suffix.
	if c, dup := seen[p.Key]; dup {
		seen[p.Key] = c + 1
		p.Key = fmt.Sprintf("%s-%d", p.Key, c+1)
	} else {
		seen[p.Key] = 0
	}
	return p
}

func (n *Normalizer) key(get func([]string) string, row int) string {
	if id := get(n.aliases.ID); id != "" {
		return id
	}
	if link := get(n.aliases.Link); link != "" {
		return link
	}
	return fmt.Sprintf("row-%d", row+1)
}

// toFloat coerces numeric catalog fields. Unparseable text, including the
// empty string, is 0 rather than an error.
func toFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
