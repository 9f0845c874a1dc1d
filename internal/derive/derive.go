// Package derive computes the classification and formatting fields attached
// to every product for one run. Every function here is total: any input,
// including a zero-value product, yields a defined result.
package derive

import (
	"fmt"
	"strings"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
)

type Config struct {
	BrandRules           []BrandRule
	FuelSynonyms         map[string]string
	PricePerWattDecimals int
}

func DefaultConfig() Config {
	return Config{
		BrandRules:           DefaultBrandRules(),
		FuelSynonyms:         DefaultFuelSynonyms(),
		PricePerWattDecimals: 3,
	}
}

func (c Config) Derive(p model.Product) model.Derived {
	return model.Derived{
		Tier:           Tier(p.RunningWattage),
		Brand:          c.Brand(p),
		FuelType:       c.FuelType(p.FuelType),
		FormattedPrice: FormatPrice(p.Price),
		PricePerWatt:   c.PricePerWatt(p.Price, p.RunningWattage),
	}
}

// Tier buckets running wattage for client-side filtering. Unknown wattage
// (0) lands in small rather than a separate bucket.
func Tier(wattage float64) string {
	switch {
	case wattage <= 500:
		return model.TierSmall
	case wattage <= 1500:
		return model.TierMedium
	default:
		return model.TierLarge
	}
}

// Brand scans the product's best free text for the first matching keyword
// rule. Display text is preferred over the link URL.
func (c Config) Brand(p model.Product) string {
	text := p.DisplayName
	if text == "" {
		text = p.LinkText
	}
	if text == "" {
		text = p.Link
	}
	text = strings.ToLower(text)
	for _, rule := range c.BrandRules {
		if strings.Contains(text, rule.Keyword) {
			return rule.Brand
		}
	}
	return model.BrandOther
}

// FuelType normalizes a free-text fuel label. Unmapped or absent labels
// default to gasoline.
func (c Config) FuelType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if v, ok := c.FuelSynonyms[key]; ok {
		return v
	}
	return "gasoline"
}

// FormatPrice renders a raw price for display. A string already carrying a
// $ prefix passes through untouched; anything without a usable value
// becomes the unavailable placeholder.
func FormatPrice(raw string) string {
	v, ok := model.ParsePrice(raw)
	if !ok {
		return model.PriceUnavailable
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "$") {
		return strings.TrimSpace(raw)
	}
	return fmt.Sprintf("$%.2f", v)
}

// PricePerWatt divides price by running wattage. The wattage check comes
// first so the division is never evaluated for wattage 0.
func (c Config) PricePerWatt(raw string, wattage float64) string {
	if wattage <= 0 {
		return "N/A"
	}
	v, ok := model.ParsePrice(raw)
	if !ok {
		return "N/A"
	}
	decimals := c.PricePerWattDecimals
	if decimals <= 0 {
		decimals = 3
	}
	return fmt.Sprintf("$%.*f", decimals, v/wattage)
}
