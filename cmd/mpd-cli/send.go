package main

import (
	"os"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <command> [args...]",
	Short: "Send one command and print the response",
	Example: `  mpd-cli send currentsong
  mpd-cli send find artist "Nina Simone"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		pairs, err := conn.Exec(args[0], args[1:]...)
		if err != nil {
			return err
		}
		printPairs(os.Stdout, pairs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
