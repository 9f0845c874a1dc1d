package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bernardkinuthia/price-comparison-site/internal/catalog"
	"github.com/Bernardkinuthia/price-comparison-site/internal/config"
	"github.com/Bernardkinuthia/price-comparison-site/internal/fetch"
	"github.com/Bernardkinuthia/price-comparison-site/internal/model"
	"github.com/Bernardkinuthia/price-comparison-site/internal/observability"
	"github.com/Bernardkinuthia/price-comparison-site/internal/pricecache"
	"github.com/Bernardkinuthia/price-comparison-site/internal/pricefeed"
	"github.com/Bernardkinuthia/price-comparison-site/internal/repository"
)

// go run cmd/fetchprices/main.go -catalog=data/products.csv -out=data/prices.json
func main() {
	cfg := config.Load()

	catalogPath := flag.String("catalog", cfg.CatalogPath, "Catalog CSV path")
	outPath := flag.String("out", cfg.PricesPath, "Price feed JSON output path")
	flag.Parse()

	observability.Start(cfg.MetricsPort)

	catalogText, err := os.ReadFile(*catalogPath)
	if err != nil {
		log.Fatalf("read catalog: %v", err)
	}
	products, err := catalog.NewDefaultNormalizer().FromCSV(string(catalogText))
	if err != nil {
		log.Fatalf("normalize catalog: %v", err)
	}
	log.Printf("fetching prices for %d products", len(products))

	ctx := context.Background()
	runID := uuid.New().String()

	var cache *pricecache.Cache
	if cfg.RedisURL != "" {
		cache, err = pricecache.New(cfg.RedisURL)
		if err != nil {
			log.Printf("price cache disabled: %v", err)
			cache = nil
		}
	}

	var history *repository.PriceHistory
	if cfg.DatabaseURL != "" {
		history, err = repository.NewPriceHistory(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("price history disabled: %v", err)
			history = nil
		} else {
			defer history.Close()
			if err := history.EnsureSchema(ctx); err != nil {
				log.Printf("price history disabled: %v", err)
				history = nil
			}
		}
	}

	client := fetch.NewClient()
	entries := make([]model.PriceEntry, len(products))
	jobs := make(chan int, len(products))
	var wg sync.WaitGroup

	for w := 0; w < cfg.WorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Small delay per request to stay polite.
				time.Sleep(500 * time.Millisecond)
				entries[i] = fetchOne(ctx, client, cache, products[i])
			}
		}()
	}
	for i := range products {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	fetched := 0
	for _, e := range entries {
		if _, ok := model.ParsePrice(e.Price); ok {
			fetched++
		}
		if history != nil {
			if err := history.Append(ctx, runID, e); err != nil {
				log.Printf("append history for %s: %v", e.MatchKey, err)
			}
		}
	}

	if err := pricefeed.Write(*outPath, entries); err != nil {
		log.Fatalf("write feed: %v", err)
	}
	log.Printf("run %s: wrote %s with %d/%d prices", runID, *outPath, fetched, len(entries))
}

// fetchOne fetches one product's price. On failure the cached last-good
// entry stands in; without one the entry goes out as "N/A" and the
// reconciler will keep the catalog price.
func fetchOne(ctx context.Context, client *fetch.Client, cache *pricecache.Cache, p model.Product) model.PriceEntry {
	entry := model.PriceEntry{
		MatchKey:     p.Key,
		Title:        p.DisplayName,
		Link:         p.Link,
		AffiliateURL: p.AffiliateURL,
		Price:        "N/A",
		LastUpdated:  time.Now().UTC().Format(time.RFC3339),
	}

	url := p.AffiliateURL
	if url == "" {
		url = p.Link
	}
	if url == "" {
		log.Printf("%s: no URL to fetch", p.Key)
		return entry
	}

	price, title, ok, err := client.ProductPage(ctx, url)
	if err != nil || !ok {
		observability.PriceFetchFailure.Inc()
		if err != nil {
			log.Printf("%s: fetch failed: %v", p.Key, err)
		} else {
			log.Printf("%s: no price on page", p.Key)
		}
		if cache != nil {
			if cached, hit := cache.Get(ctx, p.Key); hit {
				log.Printf("%s: using cached price %s", p.Key, cached.Price)
				return cached
			}
		}
		return entry
	}

	observability.PriceFetchSuccess.Inc()
	entry.Price = price
	if title != "" {
		entry.Title = title
	}
	if cache != nil {
		if err := cache.Put(ctx, entry); err != nil {
			log.Printf("%s: cache write failed: %v", p.Key, err)
		}
	}
	return entry
}
