package mpd

import (
	"github.com/pior/mpd/proto"
)

// Command is a command name with its unquoted arguments.
type Command struct {
	Name string
	Args []string
}

// NewCommand returns a command. Arguments are quoted when sent.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String returns the command line as sent on the wire, without LF.
func (c Command) String() string {
	return proto.FormatCommand(c.Name, c.Args...)
}

// Some common commands.
var (
	CmdStatus       = NewCommand(proto.CmdStatus)
	CmdPing         = NewCommand(proto.CmdPing)
	CmdCurrentSong  = NewCommand("currentsong")
	CmdStats        = NewCommand("stats")
	CmdPlaylistInfo = NewCommand("playlistinfo")
	CmdOutputs      = NewCommand("outputs")
)
