// Command mpd-cli talks to a Music Player Daemon.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pior/mpd"
	"github.com/pior/mpd/proto"
)

var (
	configPath string
	host       string
	port       int
	timeout    time.Duration
	password   string
	verbose    bool

	cfg *fileConfig
)

var rootCmd = &cobra.Command{
	Use:   "mpd-cli",
	Short: "Music Player Daemon client",
	Long: `mpd-cli sends commands to a Music Player Daemon, waits for change
notifications and exposes client metrics.

The daemon is located from the flags, then the config file, then the
MPD_HOST, MPD_PORT and MPD_TIMEOUT environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "Daemon host name or socket path")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "Daemon port")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "Timeout for connecting and every wait")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password sent after connecting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// resolveSettings merges the flags over the config file over the environment.
func resolveSettings() mpd.Settings {
	h, p, t, pw := host, port, timeout, password
	if cfg != nil {
		if h == "" {
			h = cfg.Host
		}
		if p == 0 {
			p = cfg.Port
		}
		if t == 0 {
			t = cfg.Timeout
		}
		if pw == "" {
			pw = cfg.Password
		}
	}

	s := mpd.NewSettings(h, p, t)
	if pw != "" {
		s.Password = pw
	}
	return s
}

func dial(ctx context.Context) (*mpd.Connection, error) {
	s := resolveSettings()
	return mpd.DialContext(ctx, s.Host, s.Port, mpd.Options{
		Timeout:  s.Timeout,
		Password: s.Password,
		Logger:   newLogger(),
	})
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printPairs(w io.Writer, pairs []proto.Pair) {
	for _, p := range pairs {
		fmt.Fprintf(w, "%s: %s\n", p.Name, p.Value)
	}
}
