package mpd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/pior/mpd/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial(t *testing.T) {
	host, port := splitTestAddr(t, createListener(t, fakeDaemon(testResponses)))

	conn, err := Dial(host, port, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "0.23.5", conn.Version().String())
	assert.Equal(t, time.Second, conn.Timeout())

	s, err := conn.Status()
	require.NoError(t, err)
	assert.Equal(t, StatePlay, s.State)
}

func TestDial_Refused(t *testing.T) {
	host, port := splitTestAddr(t, closedAddr(t))

	conn, err := Dial(host, port, time.Second)
	require.Nil(t, conn)
	e := requireKind(t, err, proto.KindConnectFailed, fmt.Sprintf(`problems connecting to "127.0.0.1" on port %d`, port))
	assert.Error(t, e.Unwrap())
}

func TestDial_ConnectTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	host, port := splitTestAddr(t, createListener(t, nil))

	_, err := DialContext(ctx, host, port, Options{Timeout: time.Second})
	requireKind(t, err, proto.KindConnectTimeout, fmt.Sprintf(`timeout in attempting to get a response from "127.0.0.1" on port %d`, port))
}

func TestDial_NotMPD(t *testing.T) {
	addr := createListener(t, func(conn net.Conn) {
		_, _ = io.WriteString(conn, "SSH-2.0-OpenSSH_9.6\n")
	})
	host, port := splitTestAddr(t, addr)

	_, err := Dial(host, port, time.Second)
	requireKind(t, err, proto.KindNotMPD, fmt.Sprintf(`mpd not running on "127.0.0.1" on port %d`, port))
}

func TestDial_Password(t *testing.T) {
	received := make(chan string, 1)
	addr := createListener(t, func(conn net.Conn) {
		_, _ = io.WriteString(conn, testGreeting)
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		received <- line
		_, _ = io.WriteString(conn, "OK\n")
	})
	host, port := splitTestAddr(t, addr)

	conn, err := DialContext(context.Background(), host, port, Options{Timeout: time.Second, Password: "hunter2"})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "password \"hunter2\"\n", <-received)
}

func TestDial_PasswordRejected(t *testing.T) {
	responses := map[string]string{"password": "ACK [3@0] {password} incorrect password\n"}
	host, port := splitTestAddr(t, createListener(t, fakeDaemon(responses)))

	conn, err := DialContext(context.Background(), host, port, Options{Timeout: time.Second, Password: "nope"})
	require.Nil(t, conn)
	e := requireKind(t, err, proto.KindServer, "")
	assert.Equal(t, proto.AckPassword, e.Code)
}

func TestDialSource_Empty(t *testing.T) {
	_, err := DialSource(context.Background(), NewAddressList(), Options{})
	requireKind(t, err, proto.KindHostNotFound, "no address to connect to")
}

func TestDialSource_SkipsFailedCandidates(t *testing.T) {
	_, deadPort := splitTestAddr(t, closedAddr(t))
	host, port := splitTestAddr(t, createListener(t, fakeDaemon(testResponses)))

	src := NewAddressList(
		Address{Network: "tcp", Addr: fmt.Sprintf("127.0.0.1:%d", deadPort), Host: "127.0.0.1", Port: deadPort},
		Address{Network: "tcp", Addr: fmt.Sprintf("%s:%d", host, port), Host: host, Port: port},
	)

	conn, err := DialSource(context.Background(), src, Options{Timeout: time.Second})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Ping())
}

func TestDialSource_LastErrorWins(t *testing.T) {
	_, first := splitTestAddr(t, closedAddr(t))
	_, second := splitTestAddr(t, closedAddr(t))

	src := NewAddressList(
		Address{Network: "tcp", Addr: fmt.Sprintf("127.0.0.1:%d", first), Host: "127.0.0.1", Port: first},
		Address{Network: "tcp", Addr: fmt.Sprintf("127.0.0.1:%d", second), Host: "127.0.0.1", Port: second},
	)

	_, err := DialSource(context.Background(), src, Options{Timeout: time.Second})
	requireKind(t, err, proto.KindConnectFailed, fmt.Sprintf(`problems connecting to "127.0.0.1" on port %d`, second))
}

func TestDial_Unix(t *testing.T) {
	path := t.TempDir() + "/mpd.sock"
	listener, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		fakeDaemon(testResponses)(conn)
	}()

	conn, err := Dial(path, 0, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	pairs, err := conn.Exec("currentsong")
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}
