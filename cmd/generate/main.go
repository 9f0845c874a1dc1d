package main

import (
	"flag"
	"log"

	"github.com/Bernardkinuthia/price-comparison-site/internal/config"
	"github.com/Bernardkinuthia/price-comparison-site/internal/pipeline"
)

// go run cmd/generate/main.go -catalog=data/products.csv -prices=data/prices.json
func main() {
	cfg := config.Load()

	catalogPath := flag.String("catalog", cfg.CatalogPath, "Catalog CSV path")
	pricesPath := flag.String("prices", cfg.PricesPath, "Price feed JSON path (empty to skip)")
	templatePath := flag.String("template", cfg.TemplatePath, "Host HTML template path")
	outputPath := flag.String("out", cfg.OutputPath, "Output HTML path")
	ppwDecimals := flag.Int("ppw-decimals", cfg.PricePerWattDecimals, "Decimal places for price per watt")
	flag.Parse()

	pl := pipeline.New()
	pl.Derive.PricePerWattDecimals = *ppwDecimals

	res, err := pl.RunFiles(*catalogPath, *pricesPath, *templatePath, *outputPath)
	if err != nil {
		if pipeline.IsFatal(err) {
			log.Fatalf("generation aborted: %v", err)
		}
		log.Fatalf("generation failed: %v", err)
	}

	log.Printf("generation finished: %d products, %d with prices", res.Products, res.WithPrice)
}
