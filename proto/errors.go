package proto

import (
	"errors"
	"strconv"
)

// ErrorKind classifies every failure the engine can report.
// All kinds are terminal for the current command: the caller must issue a new
// command or reconnect.
type ErrorKind uint8

const (
	// KindHostNotFound: the address source produced no candidate.
	KindHostNotFound ErrorKind = iota + 1

	// KindSystem: an OS call failed outside of connect/read/write.
	KindSystem

	// KindConnectTimeout: a candidate did not complete the TCP handshake in time.
	KindConnectTimeout

	// KindConnectFailed: a candidate refused or failed the connection.
	KindConnectFailed

	// KindNotMPD: the greeting was not an MPD greeting or its version was malformed.
	KindNotMPD

	// KindNotConnected: the connection has no socket.
	KindNotConnected

	// KindBufferOverrun: a response line did not fit in the receive buffer.
	KindBufferOverrun

	// KindTimeout: a read or write did not make progress within the timeout.
	KindTimeout

	// KindClosed: the peer closed the connection or a read failed.
	KindClosed

	// KindSend: a write failed for a reason other than the timeout.
	KindSend

	// KindProtocol: the caller broke the request/response contract
	// (pulled out of turn, mismatched batch boundaries).
	KindProtocol

	// KindMalformed: a response line could not be parsed.
	KindMalformed

	// KindServer: the daemon rejected the command with an ACK line.
	KindServer
)

var kindNames = [...]string{
	KindHostNotFound:   "host not found",
	KindSystem:         "system error",
	KindConnectTimeout: "connect timeout",
	KindConnectFailed:  "connect failed",
	KindNotMPD:         "not mpd",
	KindNotConnected:   "not connected",
	KindBufferOverrun:  "buffer overrun",
	KindTimeout:        "timeout",
	KindClosed:         "connection closed",
	KindSend:           "send failed",
	KindProtocol:       "protocol violation",
	KindMalformed:      "malformed response",
	KindServer:         "server error",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "error kind " + strconv.Itoa(int(k))
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrHostNotFound   = &Error{Kind: KindHostNotFound}
	ErrSystem         = &Error{Kind: KindSystem}
	ErrConnectTimeout = &Error{Kind: KindConnectTimeout}
	ErrConnectFailed  = &Error{Kind: KindConnectFailed}
	ErrNotMPD         = &Error{Kind: KindNotMPD}
	ErrNotConnected   = &Error{Kind: KindNotConnected}
	ErrBufferOverrun  = &Error{Kind: KindBufferOverrun}
	ErrTimeout        = &Error{Kind: KindTimeout}
	ErrClosed         = &Error{Kind: KindClosed}
	ErrSend           = &Error{Kind: KindSend}
	ErrProtocol       = &Error{Kind: KindProtocol}
	ErrMalformed      = &Error{Kind: KindMalformed}
	ErrServer         = &Error{Kind: KindServer}
)

// Error is the single error type of the engine.
//
// Code, At, Command and Text are only meaningful when Kind is KindServer.
// For server errors Message holds the full ACK line (truncated to
// MaxErrorMessage bytes).
type Error struct {
	Kind    ErrorKind
	Message string

	Code    AckCode
	At      int
	Command string
	Text    string

	// Err is the underlying cause, if any.
	Err error
}

// NewError returns an error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Code: AckUnknown, At: PositionUnknown}
}

// WrapError returns an error of the given kind caused by err.
func WrapError(kind ErrorKind, message string, err error) *Error {
	e := NewError(kind, message)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Kind == KindServer {
		return "mpd: " + msg
	}
	if e.Err != nil {
		return "mpd: " + msg + ": " + e.Err.Error()
	}
	return "mpd: " + msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// ShouldCloseConnection reports whether the connection must be discarded.
//
// Server and Protocol errors leave the stream aligned on a line boundary, so
// the connection can take a new command. Every other kind leaves it broken or
// desynchronised.
func (e *Error) ShouldCloseConnection() bool {
	switch e.Kind {
	case KindServer, KindProtocol:
		return false
	default:
		return true
	}
}

// ErrorWithConnectionState is implemented by errors that know whether the
// connection survived them.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection is a helper function to determine if an error
// requires closing the connection.
//
// Unknown error types are treated conservatively and close the connection.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}

// AsError returns err as an *Error, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
