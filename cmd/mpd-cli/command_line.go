package main

import (
	"errors"
	"strings"

	"github.com/pior/mpd"
)

// parseCommandLine splits a command line on spaces. Double quotes group words
// and a backslash inside quotes escapes the next character.
func parseCommandLine(line string) (mpd.Command, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quoted  bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quoted && ch == '\\' && i+1 < len(line):
			i++
			current.WriteByte(line[i])
		case ch == '"':
			quoted = !quoted
			inWord = true
		case !quoted && (ch == ' ' || ch == '\t'):
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteByte(ch)
			inWord = true
		}
	}

	if quoted {
		return mpd.Command{}, errors.New("unterminated quote in " + line)
	}
	if inWord {
		words = append(words, current.String())
	}
	if len(words) == 0 {
		return mpd.Command{}, errors.New("empty command")
	}
	return mpd.NewCommand(words[0], words[1:]...), nil
}
