package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pior/mpd"
	"github.com/pior/mpd/proto"
)

var idleOnce bool

var idleCmd = &cobra.Command{
	Use:   "idle [subsystem...]",
	Short: "Print change notifications as they happen",
	Long: `Waits for changes in the given subsystems, or in all of them, and prints
the changed subsystems. Timeouts restart the wait.`,
	Example: `  mpd-cli idle player mixer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := mpd.ParseIdleEvents(args...)
		if err != nil {
			return err
		}

		conn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()
		for ctx.Err() == nil {
			if !conn.IsIdle() {
				if err := conn.EnterIdle(events); err != nil {
					return err
				}
			}

			changed, err := conn.ReadIdle()
			if errors.Is(err, proto.ErrTimeout) {
				continue
			}
			if err != nil {
				return err
			}

			for _, name := range changed.Names() {
				fmt.Printf("changed: %s\n", name)
			}
			if idleOnce {
				return nil
			}
		}

		_ = conn.ExitIdle()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(idleCmd)
	idleCmd.Flags().BoolVar(&idleOnce, "once", false, "Exit after the first notification")
}
