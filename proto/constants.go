package proto

import "strconv"

// ElementType identifies what a response line carried.
type ElementType uint8

// AckCode is the numeric error code of an ACK line.
type AckCode int

// Protocol delimiters and markers
const (
	// LF terminates every line in both directions.
	LF = '\n'

	// Welcome is the prefix of the greeting the daemon sends on connect.
	//
	// Wire format: OK MPD <major>.<minor>.<patch>\n
	Welcome = "OK MPD "

	// LineOK terminates a successful response.
	LineOK = "OK"

	// LineListOK terminates one sub-response inside command_list_ok_begin.
	LineListOK = "list_OK"

	// AckPrefix starts an error response.
	//
	// Wire format: ACK [<code>@<position>] {<command>} <message>\n
	AckPrefix = "ACK"

	// PairSeparator separates the name and the value of a pair line.
	//
	// Wire format: <name>: <value>\n
	PairSeparator = ": "
)

// Batch (command list) commands
const (
	CmdListBegin   = "command_list_begin"
	CmdListOKBegin = "command_list_ok_begin"
	CmdListEnd     = "command_list_end"
)

// Commands the engine itself issues
const (
	CmdIdle     = "idle"
	CmdNoIdle   = "noidle"
	CmdPassword = "password"
	CmdPing     = "ping"
	CmdStatus   = "status"
	CmdClose    = "close"
)

const (
	// DefaultHost is used when neither an explicit host nor MPD_HOST is set.
	DefaultHost = "localhost"

	// DefaultPort is the daemon's registered TCP port.
	DefaultPort = 6600

	// DefaultBufferSize is the receive buffer capacity, which caps the length
	// of a single response line.
	DefaultBufferSize = 50000

	// MaxErrorMessage caps the copy of an ACK line kept in Error.Message.
	MaxErrorMessage = 1000
)

// Response elements
const (
	// ElementPair is a "name: value" line.
	ElementPair ElementType = iota + 1

	// ElementListOK is a list_OK boundary inside a batch response.
	ElementListOK

	// ElementOK is the final OK of a response.
	ElementOK
)

func (t ElementType) String() string {
	switch t {
	case ElementPair:
		return "pair"
	case ElementListOK:
		return "list_OK"
	case ElementOK:
		return "OK"
	default:
		return "unknown"
	}
}

// ACK error codes sent by the daemon.
const (
	// AckUnknown means the ACK line carried no parseable code.
	AckUnknown AckCode = -1

	AckNotList       AckCode = 1
	AckArg           AckCode = 2
	AckPassword      AckCode = 3
	AckPermission    AckCode = 4
	AckUnknownCmd    AckCode = 5
	AckNoExist       AckCode = 50
	AckPlaylistMax   AckCode = 51
	AckSystem        AckCode = 52
	AckPlaylistLoad  AckCode = 53
	AckUpdateAlready AckCode = 54
	AckPlayerSync    AckCode = 55
	AckExist         AckCode = 56
)

// PositionUnknown is Error.At when the ACK line carried no command position.
const PositionUnknown = -1

func (c AckCode) String() string {
	switch c {
	case AckUnknown:
		return "unknown"
	case AckNotList:
		return "not_list"
	case AckArg:
		return "arg"
	case AckPassword:
		return "password"
	case AckPermission:
		return "permission"
	case AckUnknownCmd:
		return "unknown_command"
	case AckNoExist:
		return "no_exist"
	case AckPlaylistMax:
		return "playlist_max"
	case AckSystem:
		return "system"
	case AckPlaylistLoad:
		return "playlist_load"
	case AckUpdateAlready:
		return "update_already"
	case AckPlayerSync:
		return "player_sync"
	case AckExist:
		return "exist"
	default:
		return "code_" + strconv.Itoa(int(c))
	}
}
