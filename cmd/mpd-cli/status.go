package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pior/mpd"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the player status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		status, err := conn.Status()
		if err != nil {
			return err
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		printStatus(conn.Version().String(), status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

func printStatus(version string, s *mpd.Status) {
	fmt.Printf("mpd %s: %s\n", version, s.State)
	if s.Song >= 0 {
		fmt.Printf("song:     %d/%d (id %d)\n", s.Song+1, s.PlaylistLength, s.SongID)
		fmt.Printf("time:     %s/%s\n", s.Elapsed.Truncate(1e9), s.Duration.Truncate(1e9))
	}
	if s.Volume >= 0 {
		fmt.Printf("volume:   %d%%\n", s.Volume)
	}
	fmt.Printf("repeat:   %s  random: %s  single: %s  consume: %s\n",
		onOff(s.Repeat), onOff(s.Random), onOff(s.Single), onOff(s.Consume))
	if s.Audio.SampleRate > 0 {
		fmt.Printf("audio:    %s @ %d kbps\n", s.Audio, s.Bitrate)
	}
	if s.UpdatingDB > 0 {
		fmt.Printf("updating: job %d\n", s.UpdatingDB)
	}
	if s.Error != "" {
		fmt.Printf("error:    %s\n", s.Error)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
