// Package reconcile merges feed prices into canonical catalog records.
package reconcile

import (
	"log"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
	"github.com/Bernardkinuthia/price-comparison-site/internal/observability"
)

// Stats reports how many catalog records found a feed entry and how many
// actually took a price from it. Required output, asserted by tests.
type Stats struct {
	Matched int
	Updated int
}

// Merge returns a new catalog slice with feed prices applied. Inputs are
// never mutated.
//
// Matching tries, per record and in order: link, affiliate URL, explicit
// catalog id. First hit wins; no fuzzy matching. A matched entry only
// updates the record when it carries a usable price - "N/A", empty, null
// and zero prices never overwrite the last known good catalog price, so a
// bad feed fetch cannot erase data.
func Merge(catalog []model.Product, feed []model.PriceEntry) ([]model.Product, Stats) {
	lookup := index(feed)

	out := make([]model.Product, len(catalog))
	var stats Stats
	for i, p := range catalog {
		out[i] = p

		entry, ok := match(p, lookup)
		if !ok {
			continue
		}
		stats.Matched++
		observability.ReconcileMatched.Inc()

		if _, valid := model.ParsePrice(entry.Price); !valid {
			continue
		}
		out[i].Price = entry.Price
		out[i].PriceLastUpdated = entry.LastUpdated
		stats.Updated++
		observability.ReconcileUpdated.Inc()
	}

	log.Printf("reconcile: %d/%d matched, %d updated", stats.Matched, len(catalog), stats.Updated)
	return out, stats
}

// index maps every key a feed entry carries back to the entry. When two
// entries claim the same key the first one keeps it.
func index(feed []model.PriceEntry) map[string]model.PriceEntry {
	lookup := make(map[string]model.PriceEntry, len(feed))
	put := func(k string, e model.PriceEntry) {
		if k == "" {
			return
		}
		if _, exists := lookup[k]; !exists {
			lookup[k] = e
		}
	}
	for _, e := range feed {
		put(e.Link, e)
		put(e.AffiliateURL, e)
		put(e.MatchKey, e)
	}
	return lookup
}

func match(p model.Product, lookup map[string]model.PriceEntry) (model.PriceEntry, bool) {
	for _, k := range []string{p.Link, p.AffiliateURL, p.Key} {
		if k == "" {
			continue
		}
		if e, ok := lookup[k]; ok {
			return e, true
		}
	}
	return model.PriceEntry{}, false
}
