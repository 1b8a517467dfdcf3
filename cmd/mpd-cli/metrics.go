package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pior/mpd"
	"github.com/pior/mpd/promexporter"
)

var (
	metricsAddr     string
	metricsServers  []string
	metricsZones    []string
	metricsInterval time.Duration
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Poll daemons and serve client metrics for Prometheus",
	Long: `Polls the status of every zone at a fixed interval through a pooled
client and serves the client statistics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()
		s := resolveSettings()

		servers := metricsServers
		if len(servers) == 0 {
			servers = cfg.Servers
		}
		if len(servers) == 0 {
			servers = []string{defaultServer(s)}
		}
		zones := metricsZones
		if len(zones) == 0 {
			zones = cfg.Zones
		}
		if len(zones) == 0 {
			zones = []string{"default"}
		}
		addr := metricsAddr
		if addr == "" {
			addr = cfg.MetricsAddr
		}
		if addr == "" {
			addr = ":9150"
		}

		client, err := mpd.NewClient(servers, mpd.Config{
			MaxSize:             2,
			Timeout:             s.Timeout,
			Password:            s.Password,
			MaxConnIdleTime:     5 * time.Minute,
			HealthCheckInterval: 30 * time.Second,
			NewCircuitBreaker:   mpd.NewCircuitBreakerConfig(1, time.Minute, 30*time.Second),
			Logger:              logger,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		exporter := promexporter.NewExporter(client)
		mux := http.NewServeMux()
		mux.Handle("/metrics", exporter.Handler())
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		go pollZones(ctx, client, zones, metricsInterval, logger)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		fmt.Printf("Serving metrics on %s/metrics\n", addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().StringVar(&metricsAddr, "listen", "", "Listen address for the metrics endpoint (default :9150)")
	metricsCmd.Flags().StringSliceVar(&metricsServers, "server", nil, "Daemon address, repeatable (default from host and port)")
	metricsCmd.Flags().StringSliceVar(&metricsZones, "zone", nil, "Zone to poll, repeatable")
	metricsCmd.Flags().DurationVar(&metricsInterval, "interval", 10*time.Second, "Polling interval")
}

func defaultServer(s mpd.Settings) string {
	if s.Host != "" && (s.Host[0] == '/' || s.Host[0] == '@') {
		return s.Host
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func pollZones(ctx context.Context, client *mpd.Client, zones []string, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, zone := range zones {
			if _, err := client.Status(ctx, zone); err != nil && ctx.Err() == nil {
				logger.Warn("status poll failed", "zone", zone, "server", client.ServerFor(zone), "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
