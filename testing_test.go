package mpd

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pior/mpd/internal/testutils"
	"github.com/stretchr/testify/require"
)

const testGreeting = "OK MPD 0.23.5\n"

func createListener(t testing.TB, handler func(conn net.Conn)) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				if handler != nil {
					handler(c)
				}
			}(conn)
		}
	}()

	return listener.Addr().String()
}

// closedAddr returns an address nothing listens on.
func closedAddr(t testing.TB) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func splitTestAddr(t testing.TB, addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

// fakeDaemon greets and answers each command with responses[name], where name
// is the first word of the line. Command lists are collected and answered as
// a whole, with list_OK lines when requested. Unknown commands are rejected
// with an ACK. A response of "" makes the daemon hang up.
func fakeDaemon(responses map[string]string) func(conn net.Conn) {
	return func(conn net.Conn) {
		if _, err := io.WriteString(conn, testGreeting); err != nil {
			return
		}

		var list []string
		inList, withAck := false, false

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()

			switch line {
			case "command_list_begin", "command_list_ok_begin":
				inList, withAck, list = true, line == "command_list_ok_begin", nil
				continue
			case "command_list_end":
				inList = false
				if _, err := io.WriteString(conn, answerList(responses, list, withAck)); err != nil {
					return
				}
				continue
			}

			if inList {
				list = append(list, line)
				continue
			}

			resp := answer(responses, line, 0)
			if resp == "" {
				return
			}
			if _, err := io.WriteString(conn, resp); err != nil {
				return
			}
		}
	}
}

func answer(responses map[string]string, line string, pos int) string {
	name, _, _ := strings.Cut(line, " ")
	resp, ok := responses[name]
	if !ok {
		return "ACK [5@" + strconv.Itoa(pos) + "] {} unknown command \"" + name + "\"\n"
	}
	return strings.ReplaceAll(resp, "@0]", "@"+strconv.Itoa(pos)+"]")
}

func answerList(responses map[string]string, list []string, withAck bool) string {
	var b strings.Builder
	for i, line := range list {
		resp := answer(responses, line, i)
		if strings.HasPrefix(resp, "ACK") {
			b.WriteString(resp)
			return b.String()
		}
		b.WriteString(strings.TrimSuffix(resp, "OK\n"))
		if withAck {
			b.WriteString("list_OK\n")
		}
	}
	b.WriteString("OK\n")
	return b.String()
}

var testResponses = map[string]string{
	"status":      "volume: 50\nrepeat: 0\nrandom: 1\nsingle: 0\nconsume: 0\nplaylist: 4\nplaylistlength: 2\nstate: play\nsong: 1\nsongid: 2\ntime: 12:240\nelapsed: 12.345\nbitrate: 320\naudio: 44100:24:2\nOK\n",
	"currentsong": "file: music/a.flac\nTitle: A\nOK\n",
	"ping":        "OK\n",
	"password":    "OK\n",
	"play":        "ACK [50@0] {play} No such song\n",
	"idle":        "changed: player\nOK\n",
	"noidle":      "OK\n",
	"kill":        "",
}

// newMockConnection returns a connection over a scripted socket. The
// greeting is read during the handshake, chunks are served afterwards.
func newMockConnection(t testing.TB, chunks ...string) (*Connection, *testutils.ConnectionMock) {
	t.Helper()

	mock := testutils.NewConnectionMock(append([]string{testGreeting}, chunks...)...)
	conn, err := NewConnection(mock, Options{Timeout: time.Second})
	require.NoError(t, err)
	return conn, mock
}
