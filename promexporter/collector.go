package promexporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pior/mpd"
)

// StatsSource is the subset of *mpd.Client read by the collector.
type StatsSource interface {
	Stats() mpd.ClientStats
	AllPoolStats() []mpd.ServerPoolStats
}

// Collector reads client statistics on every scrape. It keeps no state of its
// own: the counters live in the client and are only sampled here.
type Collector struct {
	source StatsSource

	commands *prometheus.Desc
	batches  *prometheus.Desc
	idles    *prometheus.Desc
	errors   *prometheus.Desc

	poolConnections   *prometheus.Desc
	poolCreated       *prometheus.Desc
	poolDestroyed     *prometheus.Desc
	poolAcquires      *prometheus.Desc
	poolAcquireWaits  *prometheus.Desc
	poolAcquireErrors *prometheus.Desc
	poolWaitSeconds   *prometheus.Desc

	circuitState    *prometheus.Desc
	circuitRequests *prometheus.Desc
	circuitFailures *prometheus.Desc
}

// NewCollector creates a collector over source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,

		commands: prometheus.NewDesc("mpd_commands_total",
			"Total number of single commands executed", nil, nil),
		batches: prometheus.NewDesc("mpd_batches_total",
			"Total number of command lists executed", nil, nil),
		idles: prometheus.NewDesc("mpd_idles_total",
			"Total number of idle waits", nil, nil),
		errors: prometheus.NewDesc("mpd_errors_total",
			"Total number of failed operations", []string{"type"}, nil), // server, other

		poolConnections: prometheus.NewDesc("mpd_pool_connections",
			"Connection pool statistics", []string{"server", "state"}, nil), // total, active, idle
		poolCreated: prometheus.NewDesc("mpd_pool_connections_created_total",
			"Total connections created", []string{"server"}, nil),
		poolDestroyed: prometheus.NewDesc("mpd_pool_connections_destroyed_total",
			"Total connections destroyed", []string{"server"}, nil),
		poolAcquires: prometheus.NewDesc("mpd_pool_acquires_total",
			"Total connection acquire attempts", []string{"server"}, nil),
		poolAcquireWaits: prometheus.NewDesc("mpd_pool_acquire_waits_total",
			"Total acquires that had to wait for a connection", []string{"server"}, nil),
		poolAcquireErrors: prometheus.NewDesc("mpd_pool_acquire_errors_total",
			"Total canceled acquire attempts", []string{"server"}, nil),
		poolWaitSeconds: prometheus.NewDesc("mpd_pool_acquire_wait_seconds_total",
			"Total time spent waiting for a connection", []string{"server"}, nil),

		circuitState: prometheus.NewDesc("mpd_circuit_breaker_state",
			"Circuit breaker state (0=closed, 1=half-open, 2=open)", []string{"server"}, nil),
		circuitRequests: prometheus.NewDesc("mpd_circuit_breaker_requests",
			"Number of requests tracked by circuit breaker", []string{"server"}, nil),
		circuitFailures: prometheus.NewDesc("mpd_circuit_breaker_failures",
			"Circuit breaker failure counts", []string{"server", "type"}, nil), // total, consecutive
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commands
	ch <- c.batches
	ch <- c.idles
	ch <- c.errors
	ch <- c.poolConnections
	ch <- c.poolCreated
	ch <- c.poolDestroyed
	ch <- c.poolAcquires
	ch <- c.poolAcquireWaits
	ch <- c.poolAcquireErrors
	ch <- c.poolWaitSeconds
	ch <- c.circuitState
	ch <- c.circuitRequests
	ch <- c.circuitFailures
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.commands, prometheus.CounterValue, float64(stats.Commands))
	ch <- prometheus.MustNewConstMetric(c.batches, prometheus.CounterValue, float64(stats.Batches))
	ch <- prometheus.MustNewConstMetric(c.idles, prometheus.CounterValue, float64(stats.Idles))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(stats.ServerErrors), "server")
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(stats.Errors), "other")

	for _, s := range c.source.AllPoolStats() {
		c.collectServer(ch, s)
	}
}

func (c *Collector) collectServer(ch chan<- prometheus.Metric, s mpd.ServerPoolStats) {
	p := s.PoolStats
	ch <- prometheus.MustNewConstMetric(c.poolConnections, prometheus.GaugeValue, float64(p.TotalConns), s.Addr, "total")
	ch <- prometheus.MustNewConstMetric(c.poolConnections, prometheus.GaugeValue, float64(p.ActiveConns), s.Addr, "active")
	ch <- prometheus.MustNewConstMetric(c.poolConnections, prometheus.GaugeValue, float64(p.IdleConns), s.Addr, "idle")
	ch <- prometheus.MustNewConstMetric(c.poolCreated, prometheus.CounterValue, float64(p.CreatedConns), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.poolDestroyed, prometheus.CounterValue, float64(p.DestroyedConns), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.poolAcquires, prometheus.CounterValue, float64(p.AcquireCount), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.poolAcquireWaits, prometheus.CounterValue, float64(p.AcquireWaitCount), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.poolAcquireErrors, prometheus.CounterValue, float64(p.AcquireErrors), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.poolWaitSeconds, prometheus.CounterValue, float64(p.AcquireWaitTimeNs)/1e9, s.Addr)

	ch <- prometheus.MustNewConstMetric(c.circuitState, prometheus.GaugeValue, float64(s.CircuitBreakerState), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.circuitRequests, prometheus.GaugeValue, float64(s.CircuitBreakerCounts.Requests), s.Addr)
	ch <- prometheus.MustNewConstMetric(c.circuitFailures, prometheus.GaugeValue, float64(s.CircuitBreakerCounts.TotalFailures), s.Addr, "total")
	ch <- prometheus.MustNewConstMetric(c.circuitFailures, prometheus.GaugeValue, float64(s.CircuitBreakerCounts.ConsecutiveFailures), s.Addr, "consecutive")
}
