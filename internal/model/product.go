package model

import (
	"math"
	"strconv"
	"strings"
)

// Product is the canonical record every stage downstream of normalization
// works with. Raw catalog rows and feed entries are never passed around.
type Product struct {
	Key              string
	DisplayName      string
	Link             string
	AffiliateURL     string
	LinkText         string
	RunningWattage   float64
	StartingWattage  float64
	CapacityWh       float64
	FuelType         string
	Condition        string
	Price            string // raw price text, "" when no valid price is known
	PriceLastUpdated string
}

// PriceEntry is one record of the independently-updated price feed.
type PriceEntry struct {
	MatchKey     string
	Title        string
	Link         string
	AffiliateURL string
	Price        string // raw, may be "N/A" or ""
	Availability string
	Condition    string
	LastUpdated  string
}

// Derived holds the per-run classification and formatting fields computed
// from a Product. Never persisted.
type Derived struct {
	Tier           string
	Brand          string
	FuelType       string
	FormattedPrice string
	PricePerWatt   string
}

const (
	TierSmall  = "small"
	TierMedium = "medium"
	TierLarge  = "large"

	BrandOther = "other_brand"

	PriceUnavailable = "Price unavailable"
)

// ParsePrice extracts a positive numeric price from raw text. Currency
// symbols and thousands separators are stripped first. Anything that does
// not parse, or parses to zero or less, is "no price" (a $0 price is not a
// valid price), reported via ok=false rather than an error.
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || v <= 0 {
		return 0, false
	}
	return v, true
}
