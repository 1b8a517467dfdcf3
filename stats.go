package mpd

import (
	"errors"
	"sync/atomic"

	"github.com/pior/mpd/proto"
)

// PoolStats contains statistics about a connection pool.
//
// For Prometheus integration, expose these as:
//   - Gauges: TotalConns, IdleConns, ActiveConns
//   - Counters: AcquireCount, AcquireWaitCount, CreatedConns, DestroyedConns, AcquireErrors
//   - Counter: AcquireWaitTimeNs (seconds once divided by 1e9)
type PoolStats struct {
	AcquireCount      uint64 // Total acquire attempts
	AcquireWaitCount  uint64 // Acquires that had to wait
	CreatedConns      uint64 // Total connections created
	DestroyedConns    uint64 // Total connections destroyed
	AcquireErrors     uint64 // Canceled acquire attempts
	AcquireWaitTimeNs uint64 // Total nanoseconds spent waiting

	TotalConns  int32 // Total connections in pool (active + idle)
	IdleConns   int32 // Idle connections available
	ActiveConns int32 // Connections currently in use
	_           int32
}

// ClientStats contains statistics about client operations.
//
// For Prometheus integration, expose these as counters.
type ClientStats struct {
	Commands     uint64 // Single commands executed
	Batches      uint64 // Command lists executed
	Idles        uint64 // Idle waits
	ServerErrors uint64 // Commands rejected by the daemon (ACK)
	Errors       uint64 // All other failures
	_            [3]uint64
}

// clientStatsCollector provides internal methods for updating client stats.
type clientStatsCollector struct {
	stats ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{}
}

func (c *clientStatsCollector) recordCommand() {
	atomic.AddUint64(&c.stats.Commands, 1)
}

func (c *clientStatsCollector) recordBatch() {
	atomic.AddUint64(&c.stats.Batches, 1)
}

func (c *clientStatsCollector) recordIdle() {
	atomic.AddUint64(&c.stats.Idles, 1)
}

// recordError counts err as a server error or a failure. nil is ignored.
func (c *clientStatsCollector) recordError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, proto.ErrServer):
		atomic.AddUint64(&c.stats.ServerErrors, 1)
	default:
		atomic.AddUint64(&c.stats.Errors, 1)
	}
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Commands:     atomic.LoadUint64(&c.stats.Commands),
		Batches:      atomic.LoadUint64(&c.stats.Batches),
		Idles:        atomic.LoadUint64(&c.stats.Idles),
		ServerErrors: atomic.LoadUint64(&c.stats.ServerErrors),
		Errors:       atomic.LoadUint64(&c.stats.Errors),
	}
}
