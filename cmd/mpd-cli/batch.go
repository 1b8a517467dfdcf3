package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pior/mpd"
)

var batchCmd = &cobra.Command{
	Use:   "batch <command line>...",
	Short: "Send commands as one command list",
	Long: `Each argument is one command line, split on spaces with double quotes
grouping words. The responses are printed in order, separated by list_OK.`,
	Example: `  mpd-cli batch status currentsong 'playlistinfo 0'`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmds := make([]mpd.Command, 0, len(args))
		for _, line := range args {
			c, err := parseCommandLine(line)
			if err != nil {
				return err
			}
			cmds = append(cmds, c)
		}

		conn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		results, err := conn.ExecBatch(cmds)
		for _, pairs := range results {
			printPairs(os.Stdout, pairs)
			fmt.Println("list_OK")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
