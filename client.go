package mpd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pior/mpd/proto"
)

// Config holds configuration for the client connection pools.
type Config struct {
	// MaxSize is the maximum number of connections per daemon.
	// Required: must be > 0.
	MaxSize int32

	// Timeout bounds connecting and every wait on a connection.
	// Zero reads MPD_TIMEOUT, then falls back to DefaultTimeout.
	Timeout time.Duration

	// Password is sent on every new connection when not empty.
	Password string

	// MaxConnLifetime is the maximum duration a connection can be reused.
	// Zero means no limit.
	MaxConnLifetime time.Duration

	// MaxConnIdleTime is the maximum duration a connection can be idle before being closed.
	// Zero means no limit.
	MaxConnIdleTime time.Duration

	// HealthCheckInterval is how often to check idle connections for health.
	// Zero disables health checks.
	HealthCheckInterval time.Duration

	// Dialer is the net.Dialer used to create new connections.
	// If nil, the default net.Dialer is used.
	Dialer *net.Dialer

	// SelectServer picks which server to use for a zone.
	// If nil, uses DefaultServerSelector.
	SelectServer ServerSelector

	// NewCircuitBreaker creates a circuit breaker for a server.
	// Called once per server address when the pool is created.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(serverAddr string, logger *slog.Logger) *CircuitBreaker

	// Logger receives connection and health check events.
	// If nil, events are discarded.
	Logger *slog.Logger

	// for testing purposes only
	constructor func(ctx context.Context) (*Connection, error)
}

// dialFunc returns the connection constructor for a server address:
// "host:port", "host" (default port) or a socket path.
func (config Config) dialFunc(addr string) func(ctx context.Context) (*Connection, error) {
	host, port := splitServerAddr(addr)
	opts := Options{
		Timeout:  config.Timeout,
		Password: config.Password,
		Dialer:   config.Dialer,
		Logger:   config.Logger,
	}
	return func(ctx context.Context) (*Connection, error) {
		return DialContext(ctx, host, port, opts)
	}
}

func splitServerAddr(addr string) (string, int) {
	if isSocketPath(addr) {
		return addr, 0
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, proto.DefaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, proto.DefaultPort
	}
	return host, port
}

// Client runs commands against one or more daemons from concurrent
// goroutines. Each call checks out an exclusive connection from the pool of
// the daemon its zone maps to.
type Client struct {
	servers      []string
	selectServer ServerSelector
	config       Config
	logger       *slog.Logger

	mu    sync.RWMutex
	pools map[string]*ServerPool

	stopHealthCheck chan struct{}
	closeOnce       sync.Once

	stats *clientStatsCollector
}

// NewClient creates a client for the given daemon addresses.
func NewClient(servers []string, config Config) (*Client, error) {
	if len(servers) == 0 {
		return nil, errors.New("mpd: no servers provided")
	}
	if config.MaxSize <= 0 {
		return nil, fmt.Errorf("mpd: MaxSize must be > 0, got %d", config.MaxSize)
	}

	if config.SelectServer == nil {
		config.SelectServer = DefaultServerSelector
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	client := &Client{
		servers:         servers,
		selectServer:    config.SelectServer,
		config:          config,
		logger:          config.Logger,
		pools:           make(map[string]*ServerPool),
		stopHealthCheck: make(chan struct{}),
		stats:           newClientStatsCollector(),
	}

	if config.HealthCheckInterval > 0 {
		go client.healthCheckLoop()
	}

	return client, nil
}

// Close closes the client and destroys all connections in all pools.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.stopHealthCheck)

		c.mu.Lock()
		defer c.mu.Unlock()

		for _, sp := range c.pools {
			sp.pool.Close()
		}
	})
}

// Servers returns the configured daemon addresses.
func (c *Client) Servers() []string {
	return c.servers
}

// ServerFor returns the address a zone maps to.
func (c *Client) ServerFor(zone string) string {
	i := c.selectServer(zone, len(c.servers))
	if i < 0 || i >= len(c.servers) {
		i = 0
	}
	return c.servers[i]
}

func (c *Client) getPoolForZone(zone string) (*ServerPool, error) {
	return c.getOrCreatePool(c.ServerFor(zone))
}

// getOrCreatePool gets or creates a pool for the given server address.
func (c *Client) getOrCreatePool(addr string) (*ServerPool, error) {
	c.mu.RLock()
	sp, exists := c.pools[addr]
	c.mu.RUnlock()
	if exists {
		return sp, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if sp, exists := c.pools[addr]; exists {
		return sp, nil
	}

	sp, err := NewServerPool(addr, c.config)
	if err != nil {
		return nil, err
	}
	c.pools[addr] = sp
	return sp, nil
}

// Exec runs a command on the daemon of zone and returns its pairs.
//
// A server rejection is returned as a *proto.Error of KindServer; the
// connection stays in the pool.
func (c *Client) Exec(ctx context.Context, zone string, cmd Command) ([]proto.Pair, error) {
	c.stats.recordCommand()

	sp, err := c.getPoolForZone(zone)
	if err != nil {
		c.stats.recordError(err)
		return nil, err
	}

	pairs, err := sp.Exec(ctx, cmd)
	c.stats.recordError(err)
	return pairs, err
}

// ExecBatch runs commands as one command list and returns the pairs of each
// command, in order. On a server error the results of the commands before
// the failing one are returned with the error.
func (c *Client) ExecBatch(ctx context.Context, zone string, cmds []Command) ([][]proto.Pair, error) {
	c.stats.recordBatch()

	sp, err := c.getPoolForZone(zone)
	if err != nil {
		c.stats.recordError(err)
		return nil, err
	}

	results, err := sp.ExecBatch(ctx, cmds)
	c.stats.recordError(err)
	return results, err
}

// Status returns the status of the daemon of zone.
func (c *Client) Status(ctx context.Context, zone string) (*Status, error) {
	pairs, err := c.Exec(ctx, zone, CmdStatus)
	if err != nil {
		return nil, err
	}
	return StatusFromPairs(pairs)
}

// Idle waits until one of the subsystems in events changes on the daemon of
// zone, or ctx is done. Zero events waits for any subsystem.
//
// The connection timeout, shortened to the ctx deadline, bounds each wait;
// Idle keeps waiting across timeouts until ctx is done. Cancellation is
// noticed between waits, then noidle is sent and the connection is kept.
func (c *Client) Idle(ctx context.Context, zone string, events IdleEvent) (IdleEvent, error) {
	c.stats.recordIdle()

	sp, err := c.getPoolForZone(zone)
	if err != nil {
		c.stats.recordError(err)
		return 0, err
	}

	var changed IdleEvent
	err = sp.With(ctx, func(conn *Connection) error {
		if err := conn.EnterIdle(events); err != nil {
			return err
		}

		for {
			ev, err := conn.ReadIdle()
			if err == nil {
				changed = ev
				return nil
			}
			if !errors.Is(err, proto.ErrTimeout) || !conn.IsIdle() {
				return err
			}

			if ctx.Err() != nil {
				if err := conn.ExitIdle(); err != nil {
					return err
				}
				changed = conn.TakeIdleEvents()
				return ctx.Err()
			}
		}
	})

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		c.stats.recordError(err)
	}
	return changed, err
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// AllPoolStats returns stats for all server pools
func (c *Client) AllPoolStats() []ServerPoolStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make([]ServerPoolStats, 0, len(c.pools))
	for _, sp := range c.pools {
		stats = append(stats, sp.Stats())
	}
	return stats
}

// healthCheckLoop periodically checks idle connections for health and lifecycle limits.
func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(c.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopHealthCheck:
			return
		case <-ticker.C:
			c.checkAllPools()
		}
	}
}

// checkAllPools runs health checks on all existing pools
func (c *Client) checkAllPools() {
	c.mu.RLock()
	pools := make([]*ServerPool, 0, len(c.pools))
	for _, sp := range c.pools {
		pools = append(pools, sp)
	}
	c.mu.RUnlock()

	for _, sp := range pools {
		c.checkPoolConnections(sp)
	}
}

// checkPoolConnections checks all idle connections in a pool and destroys those that are stale or unhealthy.
func (c *Client) checkPoolConnections(sp *ServerPool) {
	now := time.Now()

	for _, res := range sp.pool.AcquireAllIdle() {
		if c.config.MaxConnLifetime > 0 && now.Sub(res.CreationTime()) > c.config.MaxConnLifetime {
			res.Destroy()
			continue
		}

		if c.config.MaxConnIdleTime > 0 && res.IdleDuration() > c.config.MaxConnIdleTime {
			res.Destroy()
			continue
		}

		if err := res.Value().Ping(); err != nil {
			c.logger.Warn("mpd: health check failed", "server", sp.addr, "error", err)
			res.Destroy()
			continue
		}

		res.ReleaseUnused()
	}
}
