// Package pricefeed decodes the externally-maintained price feed. The feed
// has shipped in three shapes over its history: a flat array of entries, a
// map of match key to entry, and an array wrapped in a {"products": ...}
// object. All three decode to the same []model.PriceEntry.
package pricefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
	"github.com/Bernardkinuthia/price-comparison-site/internal/observability"
)

// ErrUnavailable reports that the feed could not be read or decoded. The
// pipeline recovers from it and proceeds with catalog prices.
var ErrUnavailable = errors.New("price feed unavailable")

// flexString decodes a JSON value that may be a string, a number or null.
// Feed prices have been all three.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexString(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

type rawEntry struct {
	MatchKey     flexString `json:"match_key,omitempty"`
	ASIN         flexString `json:"asin,omitempty"`
	Title        flexString `json:"title,omitempty"`
	Link         flexString `json:"link,omitempty"`
	AffiliateURL flexString `json:"affiliate_link,omitempty"`
	Price        flexString `json:"price"`
	Availability flexString `json:"availability,omitempty"`
	Condition    flexString `json:"condition,omitempty"`
	LastUpdated  flexString `json:"last_updated,omitempty"`
}

func (r rawEntry) entry() model.PriceEntry {
	key := string(r.MatchKey)
	if key == "" {
		key = string(r.ASIN)
	}
	return model.PriceEntry{
		MatchKey:     key,
		Title:        string(r.Title),
		Link:         string(r.Link),
		AffiliateURL: string(r.AffiliateURL),
		Price:        string(r.Price),
		Availability: string(r.Availability),
		Condition:    string(r.Condition),
		LastUpdated:  string(r.LastUpdated),
	}
}

// Parse decodes feed JSON in any of the supported shapes.
func Parse(data []byte) ([]model.PriceEntry, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty feed document", ErrUnavailable)
	}

	var flat []rawEntry
	if err := json.Unmarshal(data, &flat); err == nil {
		return collect(flat, nil), nil
	}

	var wrapped struct {
		Products []rawEntry `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Products != nil {
		return collect(wrapped.Products, nil), nil
	}

	var keyed map[string]rawEntry
	if err := json.Unmarshal(data, &keyed); err == nil {
		return collect(nil, keyed), nil
	}

	return nil, fmt.Errorf("%w: unrecognized feed shape", ErrUnavailable)
}

func collect(flat []rawEntry, keyed map[string]rawEntry) []model.PriceEntry {
	entries := make([]model.PriceEntry, 0, len(flat)+len(keyed))
	for _, r := range flat {
		entries = append(entries, r.entry())
	}
	for k, r := range keyed {
		e := r.entry()
		if e.MatchKey == "" {
			e.MatchKey = k
		}
		entries = append(entries, e)
	}
	observability.FeedEntriesLoaded.Add(float64(len(entries)))
	return entries
}

// Load reads and decodes a feed file. Every failure wraps ErrUnavailable.
func Load(path string) ([]model.PriceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Parse(data)
}

// Write persists entries in the flat-array feed shape, via a temp file and
// rename so a crashed fetch run never truncates the previous feed.
func Write(path string, entries []model.PriceEntry) error {
	out := make([]rawEntry, len(entries))
	for i, e := range entries {
		out[i] = rawEntry{
			MatchKey:     flexString(e.MatchKey),
			Title:        flexString(e.Title),
			Link:         flexString(e.Link),
			AffiliateURL: flexString(e.AffiliateURL),
			Price:        flexString(e.Price),
			Availability: flexString(e.Availability),
			Condition:    flexString(e.Condition),
			LastUpdated:  flexString(e.LastUpdated),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".feed-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadOrDefault reads a JSON file into T, falling back to def when the file
// is missing or does not decode. One recovery policy for every bootstrap
// read instead of ad hoc handling per entry point.
func LoadOrDefault[T any](path string, def T) T {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("using default for %s: %v", path, err)
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("using default for %s: %v", path, err)
		return def
	}
	return v
}
