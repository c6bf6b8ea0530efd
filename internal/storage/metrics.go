package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipes_store_query_duration_seconds",
			Help:    "Latency of aggregation and search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	queryEmptyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_store_query_empty_total",
			Help: "Aggregation and search queries that matched nothing",
		},
		[]string{"query"},
	)
)

// observe records how long the named query took. Use with defer.
func observe(query string, start time.Time) {
	queryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
