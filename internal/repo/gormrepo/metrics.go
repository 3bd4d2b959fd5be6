package gormrepo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var warehouseQueryDurationSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "warehouse_query_duration_seconds",
		Help:    "Latency of paged warehouse queries in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"table", "outcome"},
)

// observe records one paged query and logs it when it exceeds the slow-query
// threshold.
func (s *Store) observe(table string, start time.Time, err error) {
	dur := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	warehouseQueryDurationSeconds.WithLabelValues(table, outcome).Observe(dur.Seconds())

	if s.slow > 0 && dur > s.slow {
		s.log.Warn("slow warehouse query", "table", table, "duration_ms", dur.Milliseconds())
	}
}
