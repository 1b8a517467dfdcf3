package mpd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pior/mpd/proto"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards the connections to one daemon.
type CircuitBreaker = gobreaker.CircuitBreaker[[]proto.Pair]

// NewCircuitBreakerConfig returns a function that creates circuit breakers for servers.
// This is a helper for common use cases.
//
// Commands rejected by the daemon (ACK) count as successes: only failures
// that break the connection trip the breaker. State changes are logged to the
// client's logger.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string, *slog.Logger) *CircuitBreaker {
	return func(serverAddr string, logger *slog.Logger) *CircuitBreaker {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: isBreakerSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("mpd: circuit breaker state changed", "server", name, "from", from.String(), "to", to.String())
			},
		}
		return gobreaker.NewCircuitBreaker[[]proto.Pair](settings)
	}
}

func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return !proto.ShouldCloseConnection(err)
}
