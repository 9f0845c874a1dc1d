package site

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Generator Price Comparison</title></head>
<body>
<p>Last updated: <span id="update-timestamp">never</span></p>
<p>Products: <span id="product-count">0</span></p>
<table>
<thead><tr><th>Product</th><th>Price</th></tr></thead>
<tbody id="product-rows"></tbody>
</table>
<script id="table-sort">/* client-side sort, delivered separately */</script>
<script id="price-widget-script">fetch('/prices');</script>
<script src="https://webservices.amazon.com/paapi5/sdk/sdk.js"></script>
</body>
</html>`

var testTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestApplyMutatesAllZones(t *testing.T) {
	rows := `<tr data-key="B001"><td class="product-name">Gen</td><td class="price">$99.00</td></tr>`

	out, err := NewMutator().Apply(testTemplate, rows, testTime, 1)
	require.NoError(t, err)

	assert.Contains(t, out, `data-key="B001"`)
	assert.Contains(t, out, `<span id="update-timestamp">2026-08-30 12:00:00</span>`)
	assert.Contains(t, out, `<span id="product-count">1</span>`)
}

func TestApplyRemovesInjectedAndLegacyScripts(t *testing.T) {
	out, err := NewMutator().Apply(testTemplate, "", testTime, 0)
	require.NoError(t, err)

	assert.NotContains(t, out, ScriptSentinelID)
	assert.NotContains(t, out, "webservices.amazon.com")
	assert.Contains(t, out, `id="table-sort"`, "the separately delivered client script must survive")
}

func TestApplyIsReentrant(t *testing.T) {
	rows := `<tr data-key="B001"><td class="product-name">Gen</td><td class="price">$99.00</td></tr>`
	m := NewMutator()

	first, err := m.Apply(testTemplate, rows, testTime, 1)
	require.NoError(t, err)
	second, err := m.Apply(first, rows, testTime, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second, "mutating previous output with the same inputs must be a fixed point")
	assert.Equal(t, 1, strings.Count(second, `data-key="B001"`), "rows must not accumulate")
}

func TestApplyMissingAnchorFailsLoudly(t *testing.T) {
	broken := strings.ReplaceAll(testTemplate, "product-rows", "renamed-container")

	_, err := NewMutator().Apply(broken, "", testTime, 0)
	var anchorErr *AnchorNotFoundError
	require.True(t, errors.As(err, &anchorErr))
	assert.Equal(t, DefaultRowContainerID, anchorErr.Anchor)
}

func TestApplyOnlyTouchesMutableZones(t *testing.T) {
	out, err := NewMutator().Apply(testTemplate, "", testTime, 0)
	require.NoError(t, err)

	// Static regions survive the pass.
	assert.Contains(t, out, "<title>Generator Price Comparison</title>")
	assert.Contains(t, out, "<th>Product</th><th>Price</th>")
}

func TestFallbackDocumentIsLabeled(t *testing.T) {
	doc := FallbackDocument("catalog not readable", testTime)
	assert.Contains(t, doc, "failed")
	assert.Contains(t, doc, "catalog not readable")
	assert.Contains(t, doc, "2026-08-30 12:00:00")
}
