package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics exposes the launchpad core-database connection
// pool statistics as Prometheus gauges.
func RegisterPgxPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "launchpad_pgxpool_acquired_conns",
			Help: "Number of currently acquired connections in the core db pool",
		}, func() float64 {
			return float64(pool.Stat().AcquiredConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "launchpad_pgxpool_max_conns",
			Help: "Maximum number of connections in the core db pool",
		}, func() float64 {
			return float64(pool.Stat().MaxConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "launchpad_pgxpool_total_conns",
			Help: "Total number of connections in the core db pool",
		}, func() float64 {
			return float64(pool.Stat().TotalConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "launchpad_pgxpool_idle_conns",
			Help: "Number of idle connections in the core db pool",
		}, func() float64 {
			return float64(pool.Stat().IdleConns())
		}),
	)
}
