package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pior/mpd"
	"github.com/pior/mpd/proto"
)

const (
	historyFileName = ".mpd_cli_history"
	historySize     = 500
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive protocol shell",
	Long: `Reads raw protocol lines and prints the responses. Command lists and
idle mode are handled by the batch and idle commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		editor := newLineEditor()
		defer editor.Close()

		prompt := fmt.Sprintf("mpd %s> ", conn.Version())
		for {
			line, err := editor.GetLine(prompt)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			line = strings.TrimSpace(line)
			if line == "quit" || line == "exit" {
				return nil
			}

			if err := runShellLine(conn, line, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				if proto.ShouldCloseConnection(err) {
					return err
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// runShellLine sends one raw line and prints the pairs of the response.
func runShellLine(conn *mpd.Connection, line string, w io.Writer) error {
	if line == "" {
		return nil
	}

	name, _, _ := strings.Cut(line, " ")
	switch name {
	case "command_list_begin", "command_list_ok_begin", "command_list_end":
		return errors.New("command lists are not supported here, use mpd-cli batch")
	case proto.CmdIdle, proto.CmdNoIdle:
		return errors.New("idle is not supported here, use mpd-cli idle")
	}

	if err := conn.Send(line); err != nil {
		return err
	}
	for {
		pair, err := conn.NextPair()
		if err != nil {
			return err
		}
		if pair == nil {
			break
		}
		fmt.Fprintf(w, "%s: %s\n", pair.Name, pair.Value)
	}
	if err := conn.Finish(); err != nil {
		return err
	}
	fmt.Fprintln(w, "OK")
	return nil
}

// lineEditor reads lines with readline on a terminal and with a scanner
// when stdin is piped.
type lineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
}

func newLineEditor() *lineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &lineEditor{scanner: bufio.NewScanner(os.Stdin)}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return &lineEditor{scanner: bufio.NewScanner(os.Stdin)}
	}
	return &lineEditor{rl: rl}
}

func historyPath() string {
	if cfg != nil && cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// GetLine returns the next line, or io.EOF on end of input or Ctrl-C.
func (e *lineEditor) GetLine(prompt string) (string, error) {
	if e.rl == nil {
		fmt.Print(prompt)
		if !e.scanner.Scan() {
			if err := e.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return e.scanner.Text(), nil
	}

	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		e.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (e *lineEditor) Close() {
	if e.rl != nil {
		e.rl.Close()
	}
}
