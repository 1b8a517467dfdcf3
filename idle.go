package mpd

import (
	"errors"
	"strings"

	"github.com/pior/mpd/proto"
)

// IdleEvent is a set of subsystems reported by the idle command.
type IdleEvent uint32

const (
	IdleDatabase IdleEvent = 1 << iota
	IdleStoredPlaylist
	IdlePlaylist
	IdlePlayer
	IdleMixer
	IdleOutput
	IdleOptions
	IdlePartition
	IdleSticker
	IdleSubscription
	IdleMessage
	IdleNeighbor
	IdleMount
	IdleUpdate
)

// IdleAll matches every known subsystem.
const IdleAll = IdleUpdate<<1 - 1

var idleNames = [...]string{
	"database",
	"stored_playlist",
	"playlist",
	"player",
	"mixer",
	"output",
	"options",
	"partition",
	"sticker",
	"subscription",
	"message",
	"neighbor",
	"mount",
	"update",
}

// idleChanged is the pair name of idle notifications.
const idleChanged = "changed"

// ParseIdleEvent returns the event of a subsystem name, or 0 if unknown.
func ParseIdleEvent(name string) IdleEvent {
	for i, n := range idleNames {
		if n == name {
			return 1 << i
		}
	}
	return 0
}

// ParseIdleEvents parses subsystem names. Unknown names are an error.
func ParseIdleEvents(names ...string) (IdleEvent, error) {
	var events IdleEvent
	for _, name := range names {
		e := ParseIdleEvent(name)
		if e == 0 {
			return 0, errors.New("mpd: unknown idle subsystem " + name)
		}
		events |= e
	}
	return events, nil
}

// Names returns the subsystem names in the set, in protocol order.
func (e IdleEvent) Names() []string {
	var names []string
	for i, n := range idleNames {
		if e&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return names
}

func (e IdleEvent) String() string {
	return strings.Join(e.Names(), "|")
}

// IsIdle reports whether the connection is waiting in idle mode.
func (c *Connection) IsIdle() bool {
	return c.idle
}

// EnterIdle sends the idle command. The daemon answers once one of the
// subsystems in events changed; zero waits for any subsystem.
func (c *Connection) EnterIdle(events IdleEvent) error {
	if c.idle {
		return c.refuse(proto.KindProtocol, "already in idle mode")
	}

	if err := c.SendCommand(proto.CmdIdle, events.Names()...); err != nil {
		return err
	}

	c.idle = true
	return nil
}

// ReadIdle waits for the idle response and returns the changed subsystems,
// including those collected by an earlier ExitIdle.
//
// A timeout keeps the connection in idle mode and ReadIdle can be called
// again.
func (c *Connection) ReadIdle() (IdleEvent, error) {
	if !c.idle {
		return 0, c.refuse(proto.KindProtocol, "not in idle mode")
	}

	if err := c.drainIdle(); err != nil {
		if errors.Is(err, proto.ErrTimeout) && c.conn != nil {
			// The reader kept any partial line; the response is still owed.
			c.state.phase = phaseAwaiting
			return 0, err
		}
		c.idle = false
		return 0, err
	}

	c.idle = false
	return c.TakeIdleEvents(), nil
}

// ExitIdle sends noidle and reads the pending idle response. Subsystems that
// changed meanwhile are kept for TakeIdleEvents.
func (c *Connection) ExitIdle() error {
	if !c.idle {
		return nil
	}
	c.idle = false

	if err := c.write(proto.CmdNoIdle); err != nil {
		return err
	}
	return c.drainIdle()
}

// TakeIdleEvents returns and clears the subsystems collected while leaving
// idle mode.
func (c *Connection) TakeIdleEvents() IdleEvent {
	e := c.idleEvents
	c.idleEvents = 0
	return e
}

func (c *Connection) drainIdle() error {
	for {
		elem, err := c.Next()
		if err != nil {
			return err
		}

		switch elem.Type {
		case proto.ElementOK:
			c.err = nil
			return nil
		case proto.ElementPair:
			if elem.Pair.Name == idleChanged {
				c.idleEvents |= ParseIdleEvent(elem.Pair.Value)
			}
		}
	}
}
