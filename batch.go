package mpd

import (
	"github.com/pior/mpd/proto"
)

// BeginBatch starts a command list. Commands sent until EndBatch are
// executed together by the daemon.
//
// With withAck, every command's response ends with a list_OK line; read them
// with NextPair and move between them with NextListOK.
func (c *Connection) BeginBatch(withAck bool) error {
	if c.conn == nil {
		return c.refuse(proto.KindNotConnected, "not connected")
	}

	if c.batch != batchOff {
		return c.refuse(proto.KindProtocol, "already in command list mode")
	}

	if c.idle {
		if err := c.ExitIdle(); err != nil {
			return err
		}
	}

	if c.state.pending() {
		return c.refuse(proto.KindProtocol, "not done processing current command")
	}

	line, mode := proto.CmdListBegin, batchPlain
	if withAck {
		line, mode = proto.CmdListOKBegin, batchWithAck
	}

	if err := c.write(line); err != nil {
		return err
	}

	c.err = nil
	c.pair = nil
	c.batch = mode
	c.state.onBatchBegin()
	return nil
}

// EndBatch sends the end of the command list. The response is then read
// like the response of a single command.
func (c *Connection) EndBatch() error {
	if c.conn == nil {
		return c.refuse(proto.KindNotConnected, "not connected")
	}

	if c.batch == batchOff {
		return c.refuse(proto.KindProtocol, "not in command list mode")
	}

	c.batch = batchOff
	if err := c.write(proto.CmdListEnd); err != nil {
		return err
	}

	c.state.onBatchEnd()
	return nil
}

// InBatch reports whether a command list is being accumulated.
func (c *Connection) InBatch() bool {
	return c.batch != batchOff
}

// ExecBatch sends commands as one list with acknowledgements and returns the
// pairs of each command's response, in order.
//
// On a server error the responses of the commands before the failing one are
// returned with the error; the error's At field is the failing position.
func (c *Connection) ExecBatch(cmds []Command) ([][]proto.Pair, error) {
	if err := c.BeginBatch(true); err != nil {
		return nil, err
	}

	for _, cmd := range cmds {
		if err := c.Send(cmd.String()); err != nil {
			return nil, err
		}
	}

	if err := c.EndBatch(); err != nil {
		return nil, err
	}

	results := make([][]proto.Pair, 0, len(cmds))
	for {
		pairs, err := c.readPairs()
		if err != nil {
			return results, err
		}

		if c.state.phase == phaseDone {
			// Empty list: no list_OK was owed.
			return results, nil
		}
		results = append(results, pairs)

		more, err := c.NextListOK()
		if err != nil {
			return results, err
		}
		if !more || len(results) == len(cmds) {
			if err := c.Finish(); err != nil {
				return results, err
			}
			return results, nil
		}
	}
}
