// Package pipeline wires the generation stages together: normalize,
// reconcile, derive, render, mutate. It owns the degrade/abort policy: the
// catalog is load-bearing and aborts the run, the price feed is not and
// only costs this run's updates.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Bernardkinuthia/price-comparison-site/internal/catalog"
	"github.com/Bernardkinuthia/price-comparison-site/internal/derive"
	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
	"github.com/Bernardkinuthia/price-comparison-site/internal/pricefeed"
	"github.com/Bernardkinuthia/price-comparison-site/internal/reconcile"
	"github.com/Bernardkinuthia/price-comparison-site/internal/render"
	"github.com/Bernardkinuthia/price-comparison-site/internal/site"
)

type Pipeline struct {
	Normalizer *catalog.Normalizer
	Derive     derive.Config
	Mutator    *site.Mutator
	Now        func() time.Time
}

func New() *Pipeline {
	return &Pipeline{
		Normalizer: catalog.NewDefaultNormalizer(),
		Derive:     derive.DefaultConfig(),
		Mutator:    site.NewMutator(),
		Now:        time.Now,
	}
}

type Result struct {
	HTML      string
	Products  int
	WithPrice int
	Reconcile reconcile.Stats
}

// Run executes one generation pass over fully materialized inputs. feedJSON
// may be nil; a nil or undecodable feed degrades to catalog-only prices.
func (pl *Pipeline) Run(catalogCSV string, feedJSON []byte, templateHTML string) (Result, error) {
	products, err := pl.Normalizer.FromCSV(catalogCSV)
	if err != nil {
		return Result{}, err
	}

	var feed []model.PriceEntry
	if feedJSON != nil {
		feed, err = pricefeed.Parse(feedJSON)
		if err != nil {
			log.Printf("proceeding with catalog prices: %v", err)
			feed = nil
		}
	}

	merged, stats := reconcile.Merge(products, feed)

	derived := make([]model.Derived, len(merged))
	withPrice := 0
	for i, p := range merged {
		derived[i] = pl.Derive.Derive(p)
		if derived[i].FormattedPrice != model.PriceUnavailable {
			withPrice++
		}
	}

	rowsHTML := render.Rows(merged, derived)
	out, err := pl.Mutator.Apply(templateHTML, rowsHTML, pl.Now(), len(merged))
	if err != nil {
		return Result{}, err
	}

	return Result{
		HTML:      out,
		Products:  len(merged),
		WithPrice: withPrice,
		Reconcile: stats,
	}, nil
}

// RunFiles reads the inputs from disk and writes the output atomically. On
// a fatal error previous output is left untouched; if there is no previous
// output a clearly-labeled fallback page is written instead, so a failed
// run never produces a document that looks successful.
func (pl *Pipeline) RunFiles(catalogPath, pricesPath, templatePath, outputPath string) (Result, error) {
	catalogText, err := os.ReadFile(catalogPath)
	if err != nil {
		pl.writeFallback(outputPath, fmt.Sprintf("catalog not readable: %v", err))
		return Result{}, fmt.Errorf("read catalog: %w", err)
	}

	var feedJSON []byte
	if pricesPath != "" {
		feedJSON, err = os.ReadFile(pricesPath)
		if err != nil {
			log.Printf("proceeding with catalog prices: %v", fmt.Errorf("%w: %v", pricefeed.ErrUnavailable, err))
			feedJSON = nil
		}
	}

	templateHTML, err := os.ReadFile(templatePath)
	if err != nil {
		pl.writeFallback(outputPath, fmt.Sprintf("template not readable: %v", err))
		return Result{}, fmt.Errorf("read template: %w", err)
	}

	res, err := pl.Run(string(catalogText), feedJSON, string(templateHTML))
	if err != nil {
		pl.writeFallback(outputPath, err.Error())
		return Result{}, err
	}

	if err := writeAtomic(outputPath, []byte(res.HTML)); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}

	log.Printf("wrote %s: %d products, %d with prices (%d matched, %d updated)",
		outputPath, res.Products, res.WithPrice, res.Reconcile.Matched, res.Reconcile.Updated)
	return res, nil
}

// writeFallback emits the placeholder page only when no previous output
// exists. An existing document from a good run always survives a bad one.
func (pl *Pipeline) writeFallback(outputPath, reason string) {
	if _, err := os.Stat(outputPath); err == nil {
		log.Printf("keeping previous output after failure: %s", reason)
		return
	}
	doc := site.FallbackDocument(reason, pl.Now())
	if err := writeAtomic(outputPath, []byte(doc)); err != nil {
		log.Printf("write fallback document: %v", err)
	}
}

// writeAtomic writes via a temp file and rename so readers never observe a
// half-written document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".out-*")
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

// IsFatal reports whether err is one of the conditions that must abort a
// run rather than degrade.
func IsFatal(err error) bool {
	var anchorErr *site.AnchorNotFoundError
	return errors.Is(err, catalog.ErrMalformedInput) || errors.As(err, &anchorErr)
}
