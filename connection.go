package mpd

import (
	"log/slog"
	"net"
	"time"

	"github.com/pior/mpd/internal/coarsetime"
	"github.com/pior/mpd/proto"
)

// Connection is a single half-duplex session with a daemon.
//
// One command is outstanding at a time: Send a command, pull its response
// with Next (or NextPair), then send the next one. Command lists are the
// exception, see BeginBatch.
//
// A Connection is not safe for concurrent use. Every blocking call is bounded
// by the connection timeout.
type Connection struct {
	conn    net.Conn
	reader  *proto.Reader
	timeout time.Duration
	version proto.Version
	logger  *slog.Logger

	state responseState
	batch batchMode

	idle       bool
	idleEvents IdleEvent

	err  *proto.Error
	pair *proto.Pair

	lastUsed time.Time
}

// Version returns the protocol version announced by the daemon.
func (c *Connection) Version() proto.Version {
	return c.version
}

// Timeout returns the bound on every wait.
func (c *Connection) Timeout() time.Duration {
	return c.timeout
}

// SetTimeout changes the bound on every later wait.
func (c *Connection) SetTimeout(d time.Duration) {
	c.timeout = d
	if c.reader != nil {
		c.reader.SetTimeout(d)
	}
}

// LastUsed returns when the last response completed.
func (c *Connection) LastUsed() time.Time {
	return c.lastUsed
}

// IsClosed reports whether the connection has no socket.
func (c *Connection) IsClosed() bool {
	return c.conn == nil
}

// LastError returns the error of the last operation, or nil.
func (c *Connection) LastError() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// ShouldClose reports whether the last error left the stream unusable.
func (c *Connection) ShouldClose() bool {
	return c.conn == nil || (c.err != nil && c.err.ShouldCloseConnection())
}

// Close releases the socket. Calling it again is a no-op.
func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.pair = nil
	c.idle = false
	c.batch = batchOff
	c.state.fail()
	c.err = proto.NewError(proto.KindNotConnected, "not connected")
	return err
}

// Send writes one raw command line.
//
// Sending while the previous response is unread is refused with a
// KindProtocol error that leaves the pending response intact. Sending while
// in idle mode leaves idle mode first.
func (c *Connection) Send(line string) error {
	if c.conn == nil {
		return c.refuse(proto.KindNotConnected, "not connected")
	}

	if c.idle {
		if err := c.ExitIdle(); err != nil {
			return err
		}
	}

	if c.batch == batchOff && c.state.pending() {
		return c.refuse(proto.KindProtocol, "not done processing current command")
	}

	if err := c.write(line); err != nil {
		return err
	}

	c.err = nil
	c.pair = nil
	c.state.onSent(c.batch)
	return nil
}

// SendCommand quotes args and sends the command.
func (c *Connection) SendCommand(name string, args ...string) error {
	return c.Send(proto.FormatCommand(name, args...))
}

// write sends a line with no state change except on failure.
func (c *Connection) write(line string) error {
	if err := proto.WriteLine(c.conn, c.timeout, line); err != nil {
		return c.fail(err)
	}
	return nil
}

// refuse records a contract error without touching the response state.
func (c *Connection) refuse(kind proto.ErrorKind, message string) error {
	c.err = proto.NewError(kind, message)
	return c.err
}

// fail records err and moves to the errored phase.
func (c *Connection) fail(err error) error {
	e := proto.AsError(err)
	if e == nil {
		e = proto.WrapError(proto.KindSystem, "unexpected error", err)
	}

	c.err = e
	c.pair = nil
	c.batch = batchOff
	c.state.fail()

	if e.ShouldCloseConnection() {
		c.logger.Debug("mpd: connection broken", "error", e)
	}
	return e
}

// Next reads the next response element.
//
// Once the response failed, Next returns the same error again without any
// I/O. Pulling when no response is pending, or while parked on a list
// boundary, is a KindProtocol error.
func (c *Connection) Next() (proto.Element, error) {
	c.pair = nil

	if c.state.phase == phaseErrored && c.err != nil {
		return proto.Element{}, c.err
	}

	if c.conn == nil {
		return proto.Element{}, c.fail(proto.NewError(proto.KindNotConnected, "not connected"))
	}

	if !c.state.readable() {
		return proto.Element{}, c.fail(proto.NewError(proto.KindProtocol, "already done processing current command"))
	}

	line, err := c.reader.ReadLine()
	if err != nil {
		return proto.Element{}, c.fail(err)
	}

	elem, err := proto.ParseLine(line)
	if err != nil {
		return proto.Element{}, c.fail(err)
	}

	switch elem.Type {
	case proto.ElementOK:
		if !c.state.onOK() {
			return proto.Element{}, c.fail(proto.NewError(proto.KindProtocol, "expected more list_OK's"))
		}
		c.err = nil
		c.lastUsed = coarsetime.Now()

	case proto.ElementListOK:
		if !c.state.onListOK() {
			return proto.Element{}, c.fail(proto.NewError(proto.KindProtocol, "got an unexpected list_OK"))
		}

	case proto.ElementPair:
		c.pair = &elem.Pair
	}

	return elem, nil
}

// Pair returns the pair read by the last Next, or nil when the last element
// was not a pair.
func (c *Connection) Pair() *proto.Pair {
	return c.pair
}

// NextPair reads the next element and returns it if it is a pair. It returns
// nil at the end of a response or sub-response.
func (c *Connection) NextPair() (*proto.Pair, error) {
	elem, err := c.Next()
	if err != nil {
		return nil, err
	}
	if elem.Type != proto.ElementPair {
		return nil, nil
	}
	return c.pair, nil
}

// NextListOK moves to the next sub-response of a command list, skipping what
// is left of the current one.
//
// It returns true when positioned at the start of another sub-response (or at
// the final OK after the last one), false once the response is complete.
func (c *Connection) NextListOK() (bool, error) {
	for {
		switch c.state.phase {
		case phaseErrored:
			return false, c.LastError()
		case phaseBoundary:
			c.state.resume()
			return true, nil
		case phaseReady, phaseDone:
			return false, nil
		}

		elem, err := c.Next()
		if err != nil {
			return false, err
		}

		switch elem.Type {
		case proto.ElementOK:
			return false, nil
		case proto.ElementListOK:
			c.state.resume()
			return true, nil
		}
	}
}

// Finish reads and discards the rest of the response.
func (c *Connection) Finish() error {
	for {
		switch c.state.phase {
		case phaseErrored:
			return c.LastError()
		case phaseReady, phaseDone:
			return nil
		case phaseBoundary:
			c.state.resume()
		}

		if _, err := c.Next(); err != nil {
			return err
		}
	}
}

// Exec sends a command and collects the pairs of its response.
func (c *Connection) Exec(name string, args ...string) ([]proto.Pair, error) {
	if err := c.SendCommand(name, args...); err != nil {
		return nil, err
	}
	return c.readPairs()
}

// readPairs collects pairs up to the end of the current (sub-)response.
func (c *Connection) readPairs() ([]proto.Pair, error) {
	var pairs []proto.Pair
	for {
		pair, err := c.NextPair()
		if err != nil {
			return pairs, err
		}
		if pair == nil {
			return pairs, nil
		}
		pairs = append(pairs, *pair)
	}
}

// Password authenticates with the daemon.
func (c *Connection) Password(password string) error {
	if err := c.SendCommand(proto.CmdPassword, password); err != nil {
		return err
	}
	return c.Finish()
}

// Ping checks that the daemon answers.
func (c *Connection) Ping() error {
	if err := c.SendCommand(proto.CmdPing); err != nil {
		return err
	}
	return c.Finish()
}
