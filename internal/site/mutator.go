// Package site applies a generation pass to the host HTML template. Only
// four zones change: the row container, the last-updated indicator, the
// product count, and removal of any previously injected price script.
package site

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultRowContainerID = "product-rows"
	DefaultTimestampID    = "update-timestamp"
	DefaultCountID        = "product-count"

	// ScriptSentinelID marks any script this system injects, so a later
	// pass can remove it exactly instead of pattern-guessing.
	ScriptSentinelID = "price-widget-script"
)

// legacyScriptSignatures identify dynamic-fetch scripts injected by older
// generations that predate the sentinel id. Best effort, kept only so stale
// templates still come out clean.
var legacyScriptSignatures = []string{
	"webservices.amazon",
	"paapi5",
	"fetchLivePrices",
}

// AnchorNotFoundError reports a template missing one of the required anchor
// elements. Fatal: mutating anyway would silently drop data.
type AnchorNotFoundError struct {
	Anchor string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("template anchor #%s not found", e.Anchor)
}

type Mutator struct {
	RowContainerID string
	TimestampID    string
	CountID        string
}

func NewMutator() *Mutator {
	return &Mutator{
		RowContainerID: DefaultRowContainerID,
		TimestampID:    DefaultTimestampID,
		CountID:        DefaultCountID,
	}
}

// Apply replaces the mutable zones of templateHTML and returns the whole
// document. Re-entrant: applying it to its own output with the same inputs
// is a fixed point.
func (m *Mutator) Apply(templateHTML, rowsHTML string, updatedAt time.Time, productCount int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	rows, err := m.anchor(doc, m.RowContainerID)
	if err != nil {
		return "", err
	}
	ts, err := m.anchor(doc, m.TimestampID)
	if err != nil {
		return "", err
	}
	count, err := m.anchor(doc, m.CountID)
	if err != nil {
		return "", err
	}

	rows.SetHtml("\n" + rowsHTML)
	ts.SetText(updatedAt.UTC().Format("2006-01-02 15:04:05"))
	count.SetText(strconv.Itoa(productCount))

	doc.Find("script#" + ScriptSentinelID).Remove()
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		body := s.Text()
		for _, sig := range legacyScriptSignatures {
			if strings.Contains(src, sig) || strings.Contains(body, sig) {
				s.Remove()
				return
			}
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return out, nil
}

func (m *Mutator) anchor(doc *goquery.Document, id string) (*goquery.Selection, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return nil, &AnchorNotFoundError{Anchor: id}
	}
	return sel.First(), nil
}

// FallbackDocument is written on a fatal error when no previous output
// exists. Clearly labeled, so a failed run never leaves behind a page that
// looks successful with data missing.
func FallbackDocument(reason string, at time.Time) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Generator Price Comparison</title></head>
<body>
<h1>Generator Price Comparison</h1>
<p>The latest price update failed and no product data is available yet.</p>
<p>Reason: %s</p>
<p>Attempted: %s UTC</p>
</body>
</html>
`, html.EscapeString(reason), at.UTC().Format("2006-01-02 15:04:05"))
}
