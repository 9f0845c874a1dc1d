package derive

// BrandRule maps a keyword found in product text to a canonical brand id.
// The table is ordered configuration: earlier rules win, and growing brand
// coverage means appending rules, not touching the matcher.
type BrandRule struct {
	Keyword string
	Brand   string
}

func DefaultBrandRules() []BrandRule {
	return []BrandRule{
		{"westinghouse", "westinghouse"},
		{"champion", "champion"},
		{"generac", "generac"},
		{"honda", "honda"},
		{"duromax", "duromax"},
		{"wen ", "wen"},
		{"pulsar", "pulsar"},
		{"a-ipower", "a_ipower"},
		{"firman", "firman"},
		{"predator", "predator"},
		{"jackery", "jackery"},
		{"ecoflow", "ecoflow"},
		{"bluetti", "bluetti"},
		{"anker", "anker"},
		{"goal zero", "goal_zero"},
		{"ryobi", "ryobi"},
		{"craftsman", "craftsman"},
		{"briggs", "briggs_stratton"},
	}
}

// DefaultFuelSynonyms maps free-text fuel labels onto the closed vocabulary
// the client-side filter understands. Lookup is case-insensitive and exact.
func DefaultFuelSynonyms() map[string]string {
	return map[string]string{
		"gas":         "gasoline",
		"gasoline":    "gasoline",
		"petrol":      "gasoline",
		"propane":     "propane",
		"lpg":         "propane",
		"dual-fuel":   "dual_fuel",
		"dual fuel":   "dual_fuel",
		"dual_fuel":   "dual_fuel",
		"tri-fuel":    "tri_fuel",
		"tri fuel":    "tri_fuel",
		"diesel":      "diesel",
		"electric":    "battery",
		"battery":     "battery",
		"solar":       "solar",
		"natural gas": "natural_gas",
	}
}
