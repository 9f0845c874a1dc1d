package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogPath          string
	PricesPath           string
	TemplatePath         string
	OutputPath           string
	DatabaseURL          string
	RedisURL             string
	MetricsPort          string
	WorkerCount          int
	PricePerWattDecimals int
}

func Load() *Config {
	// Tries the project root first, then the current directory.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		CatalogPath:          getEnv("CATALOG_PATH", "data/products.csv"),
		PricesPath:           getEnv("PRICES_PATH", "data/prices.json"),
		TemplatePath:         getEnv("TEMPLATE_PATH", "public/index.html"),
		OutputPath:           getEnv("OUTPUT_PATH", "public/index.html"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		MetricsPort:          getEnv("METRICS_PORT", "9090"),
		WorkerCount:          getEnvInt("WORKER_COUNT", 5),
		PricePerWattDecimals: getEnvInt("PRICE_PER_WATT_DECIMALS", 3),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
