package main

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/mpd"
	"github.com/pior/mpd/proto"
)

// pipeConnection returns a connection to a scripted daemon that answers each
// received line from responses.
func pipeConnection(t *testing.T, responses map[string]string) *mpd.Connection {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { server.Close() })

	go func() {
		_, _ = io.WriteString(server, "OK MPD 0.23.5\n")
		scanner := bufio.NewScanner(server)
		for scanner.Scan() {
			resp, ok := responses[scanner.Text()]
			if !ok {
				resp = "ACK [5@0] {} unknown command\n"
			}
			if _, err := io.WriteString(server, resp); err != nil {
				return
			}
		}
	}()

	conn, err := mpd.NewConnection(client, mpd.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRunShellLine(t *testing.T) {
	conn := pipeConnection(t, map[string]string{
		"currentsong": "file: a.flac\nTitle: A\nOK\n",
	})

	var out strings.Builder
	require.NoError(t, runShellLine(conn, "currentsong", &out))
	assert.Equal(t, "file: a.flac\nTitle: A\nOK\n", out.String())
}

func TestRunShellLine_ServerError(t *testing.T) {
	conn := pipeConnection(t, map[string]string{"ping": "OK\n"})

	var out strings.Builder
	err := runShellLine(conn, "bogus", &out)
	require.ErrorIs(t, err, proto.ErrServer)
	assert.False(t, proto.ShouldCloseConnection(err))

	out.Reset()
	require.NoError(t, runShellLine(conn, "ping", &out))
	assert.Equal(t, "OK\n", out.String())
}

func TestRunShellLine_Refused(t *testing.T) {
	conn := pipeConnection(t, nil)

	for _, line := range []string{"command_list_begin", "idle player", "noidle"} {
		err := runShellLine(conn, line, io.Discard)
		assert.Error(t, err, line)
	}
	assert.NoError(t, runShellLine(conn, "", io.Discard))
}
