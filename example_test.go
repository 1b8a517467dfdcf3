package mpd_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pior/mpd"
	"github.com/pior/mpd/proto"
)

// Example of a single connection driven command by command
func ExampleDial() {
	conn, err := mpd.Dial("localhost", 6600, 5*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Printf("Connected to mpd %s\n", conn.Version())

	if err := conn.SendCommand("currentsong"); err != nil {
		log.Fatal(err)
	}
	for {
		pair, err := conn.NextPair()
		if err != nil {
			log.Fatal(err)
		}
		if pair == nil {
			break
		}
		fmt.Printf("%s = %s\n", pair.Name, pair.Value)
	}
}

// Example of a command list with one sub-response per command
func ExampleConnection_ExecBatch() {
	conn, err := mpd.Dial("", 0, 0) // MPD_HOST, MPD_PORT, MPD_TIMEOUT or defaults
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	results, err := conn.ExecBatch([]mpd.Command{mpd.CmdStatus, mpd.CmdCurrentSong})
	if err != nil {
		var e *proto.Error
		if errors.As(err, &e) && e.Kind == proto.KindServer {
			fmt.Printf("command %d rejected: %s\n", e.At, e.Text)
		}
		return
	}

	status, err := mpd.StatusFromPairs(results[0])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("State: %s, song: %v\n", status.State, results[1])
}

// Example of waiting for player changes
func ExampleConnection_ReadIdle() {
	conn, err := mpd.Dial("localhost", 6600, time.Minute)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := conn.EnterIdle(mpd.IdlePlayer | mpd.IdleMixer); err != nil {
		log.Fatal(err)
	}

	for {
		events, err := conn.ReadIdle()
		if errors.Is(err, proto.ErrTimeout) {
			continue // still idle, wait again
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Changed: %s\n", events)
		return
	}
}

// Example of a pooled client shared by goroutines
func ExampleNewClient() {
	client, err := mpd.NewClient([]string{"kitchen.local:6600", "office.local:6600"}, mpd.Config{
		MaxSize:             4,
		Timeout:             5 * time.Second,
		HealthCheckInterval: 30 * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()

	// A zone always maps to the same daemon.
	status, err := client.Status(ctx, "living-room")
	if err != nil {
		log.Printf("Status failed: %v", err)
		return
	}
	fmt.Printf("living-room is on %s: %s\n", client.ServerFor("living-room"), status.State)

	if _, err := client.Exec(ctx, "living-room", mpd.NewCommand("setvol", "40")); err != nil {
		log.Printf("setvol failed: %v", err)
	}
}

// Example demonstrating how to collect stats for CLI tools
func ExampleClient_Stats() {
	client, err := mpd.NewClient([]string{"localhost:6600"}, mpd.Config{MaxSize: 2})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	ctx := context.Background()
	_, _ = client.Status(ctx, "default")
	_, _ = client.Exec(ctx, "default", mpd.NewCommand("play", "9999")) // rejected

	stats := client.Stats()
	fmt.Printf("Commands: %d, batches: %d, idles: %d\n", stats.Commands, stats.Batches, stats.Idles)
	fmt.Printf("Server errors: %d, errors: %d\n", stats.ServerErrors, stats.Errors)

	for _, s := range client.AllPoolStats() {
		fmt.Printf("Server %s: %d total, %d idle, %d active\n",
			s.Addr, s.PoolStats.TotalConns, s.PoolStats.IdleConns, s.PoolStats.ActiveConns)
	}
}

// Example demonstrating how to use circuit breakers with the client
func ExampleNewCircuitBreakerConfig() {
	client, err := mpd.NewClient([]string{"localhost:6600", "localhost:6601"}, mpd.Config{
		MaxSize: 4,
		NewCircuitBreaker: mpd.NewCircuitBreakerConfig(
			3,              // maxRequests in half-open state
			time.Minute,    // interval to reset failure counts
			10*time.Second, // timeout before transitioning to half-open
		),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	_, _ = client.Exec(context.Background(), "kitchen", mpd.CmdPing)

	for _, s := range client.AllPoolStats() {
		fmt.Printf("Server: %s, Circuit: %s\n", s.Addr, s.CircuitBreakerState)
	}
}
