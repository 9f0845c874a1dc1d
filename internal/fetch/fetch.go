// Package fetch is the price acquisition collaborator. It is entirely
// outside the generation pipeline: its only job is turning a product URL
// into a price feed entry.
package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// priceSelectors are tried in order; retailer layouts change often and the
// older ids are kept as fallbacks.
var priceSelectors = []string{
	".a-price .a-offscreen",
	".a-price-whole",
	".a-price-current .a-offscreen",
	"#priceblock_dealprice",
	"#priceblock_ourprice",
	".a-price-range .a-offscreen",
}

var titleSelectors = []string{
	"#productTitle",
	".product-title",
	"h1.a-size-large",
}

var priceRe = regexp.MustCompile(`[0-9][0-9,]*\.?[0-9]*`)

type Client struct {
	HTTP       *http.Client
	MaxRetries int
}

func NewClient() *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: 15 * time.Second},
		MaxRetries: 3,
	}
}

// ProductPage fetches one product page and extracts a price and title.
// A page that loads but shows no price returns ok=false without error.
func (c *Client) ProductPage(ctx context.Context, url string) (price, title string, ok bool, err error) {
	var lastErr error
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", "", false, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		doc, err := c.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		price, title = extract(doc)
		return price, title, price != "", nil
	}
	return "", "", false, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func extract(doc *goquery.Document) (price, title string) {
	for _, sel := range priceSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if m := priceRe.FindString(strings.ReplaceAll(text, ",", "")); m != "" {
			price = "$" + m
			break
		}
	}
	for _, sel := range titleSelectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			title = t
			break
		}
	}
	return price, title
}

func backoff(attempt int) time.Duration {
	base := time.Duration(attempt) * 5 * time.Second
	return base + time.Duration(rand.Intn(5000))*time.Millisecond
}
