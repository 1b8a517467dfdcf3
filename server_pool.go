package mpd

import (
	"context"
	"log/slog"
	"time"

	"github.com/pior/mpd/proto"
	"github.com/sony/gobreaker/v2"
)

// NewServerPool creates the pool of connections to one daemon.
func NewServerPool(addr string, config Config) (*ServerPool, error) {
	constructor := config.constructor
	if constructor == nil {
		constructor = config.dialFunc(addr)
	}

	pool, err := NewPuddlePool(constructor, config.MaxSize)
	if err != nil {
		return nil, err
	}

	sp := &ServerPool{
		addr: addr,
		pool: pool,
	}
	if config.NewCircuitBreaker != nil {
		logger := config.Logger
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		sp.circuitBreaker = config.NewCircuitBreaker(addr, logger)
	}
	return sp, nil
}

// ServerPool wraps a pool, a circuit breaker with its server address.
type ServerPool struct {
	addr           string
	pool           Pool
	circuitBreaker *CircuitBreaker
}

func (sp *ServerPool) Address() string {
	return sp.addr
}

// ServerPoolStats contains stats for a single server pool
type ServerPoolStats struct {
	Addr                 string
	PoolStats            PoolStats
	CircuitBreakerState  gobreaker.State
	CircuitBreakerCounts gobreaker.Counts
}

func (sp *ServerPool) Stats() ServerPoolStats {
	stats := ServerPoolStats{
		Addr:      sp.addr,
		PoolStats: sp.pool.Stats(),
	}
	if sp.circuitBreaker != nil {
		stats.CircuitBreakerState = sp.circuitBreaker.State()
		stats.CircuitBreakerCounts = sp.circuitBreaker.Counts()
	}
	return stats
}

// Exec runs one command on a pooled connection, through the circuit breaker.
func (sp *ServerPool) Exec(ctx context.Context, cmd Command) ([]proto.Pair, error) {
	if sp.circuitBreaker == nil {
		return sp.execDirect(ctx, cmd)
	}

	return sp.circuitBreaker.Execute(func() ([]proto.Pair, error) {
		return sp.execDirect(ctx, cmd)
	})
}

func (sp *ServerPool) execDirect(ctx context.Context, cmd Command) ([]proto.Pair, error) {
	var pairs []proto.Pair
	err := sp.with(ctx, func(conn *Connection) error {
		var err error
		pairs, err = conn.Exec(cmd.Name, cmd.Args...)
		return err
	})
	return pairs, err
}

// ExecBatch runs commands as one command list on a pooled connection.
// The batch counts as one request for the circuit breaker.
func (sp *ServerPool) ExecBatch(ctx context.Context, cmds []Command) ([][]proto.Pair, error) {
	var results [][]proto.Pair
	run := func() ([]proto.Pair, error) {
		return nil, sp.with(ctx, func(conn *Connection) error {
			var err error
			results, err = conn.ExecBatch(cmds)
			return err
		})
	}

	var err error
	if sp.circuitBreaker == nil {
		_, err = run()
	} else {
		_, err = sp.circuitBreaker.Execute(run)
	}
	return results, err
}

// With runs fn on an exclusive connection. The connection is destroyed when
// fn leaves it unusable, and returned to the pool otherwise.
//
// The context deadline, when earlier, shortens the connection timeout for the
// duration of fn.
func (sp *ServerPool) With(ctx context.Context, fn func(conn *Connection) error) error {
	if sp.circuitBreaker == nil {
		return sp.with(ctx, fn)
	}

	_, err := sp.circuitBreaker.Execute(func() ([]proto.Pair, error) {
		return nil, sp.with(ctx, fn)
	})
	return err
}

func (sp *ServerPool) with(ctx context.Context, fn func(conn *Connection) error) error {
	resource, err := sp.pool.Acquire(ctx)
	if err != nil {
		return err
	}

	conn := resource.Value()

	timeout := conn.Timeout()
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			if remaining <= 0 {
				resource.Release()
				return context.DeadlineExceeded
			}
			conn.SetTimeout(remaining)
		}
	}

	err = fn(conn)
	conn.SetTimeout(timeout)

	switch {
	case conn.ShouldClose():
		resource.Destroy()
	case conn.state.pending() || conn.InBatch() || conn.IsIdle():
		// fn left the connection mid-response; it cannot be handed out again.
		resource.Destroy()
	default:
		resource.Release()
	}
	return err
}
