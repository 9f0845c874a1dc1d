package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProductsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_normalized_total",
			Help: "Catalog rows normalized into canonical products",
		},
	)
	FeedEntriesLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_feed_entries_loaded_total",
			Help: "Price feed entries decoded",
		},
	)
	ReconcileMatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_matched_total",
			Help: "Catalog products matched to a feed entry",
		},
	)
	ReconcileUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_updated_total",
			Help: "Catalog products whose price was updated from the feed",
		},
	)
	PriceFetchSuccess = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_fetch_success_total",
			Help: "Product pages that yielded a price",
		},
	)
	PriceFetchFailure = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_fetch_failure_total",
			Help: "Product pages that yielded no price",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(
		ProductsNormalized,
		FeedEntriesLoaded,
		ReconcileMatched,
		ReconcileUpdated,
		PriceFetchSuccess,
		PriceFetchFailure,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
