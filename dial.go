package mpd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/pior/mpd/internal/coarsetime"
	"github.com/pior/mpd/proto"
)

// Options configure how a connection is established.
type Options struct {
	// Timeout bounds connecting and every later wait on the connection.
	// Zero reads MPD_TIMEOUT, then falls back to DefaultTimeout.
	Timeout time.Duration

	// BufferSize is the receive buffer capacity, which caps the length of a
	// response line. Zero selects proto.DefaultBufferSize.
	BufferSize int

	// MaxBufferSize lets the receive buffer grow up to this size instead of
	// failing on a long line. Zero keeps the buffer fixed.
	MaxBufferSize int

	// Password is sent right after the handshake when not empty.
	// DialContext falls back to the password in MPD_HOST.
	Password string

	// Resolver looks up host names. Nil uses net.DefaultResolver.
	Resolver *net.Resolver

	// Dialer is the template for every connect. Its Timeout is overridden.
	Dialer *net.Dialer

	// Logger receives connect and handshake events. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.BufferSize <= 0 {
		o.BufferSize = proto.DefaultBufferSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Dial connects to host and port with the given timeout, falling back to the
// environment and the defaults for zero values.
func Dial(host string, port int, timeout time.Duration) (*Connection, error) {
	return DialContext(context.Background(), host, port, Options{Timeout: timeout})
}

// DialContext resolves host and connects to each candidate in turn until one
// completes the handshake.
//
// A failed candidate is skipped. When all of them fail, the error of the last
// one is returned. A host that does not resolve fails with KindHostNotFound.
func DialContext(ctx context.Context, host string, port int, opts Options) (*Connection, error) {
	settings := NewSettings(host, port, opts.Timeout)
	opts.Timeout = settings.Timeout
	if opts.Password == "" {
		opts.Password = settings.Password
	}

	src, err := Resolve(ctx, opts.Resolver, settings.Host, settings.Port)
	if err != nil {
		return nil, err
	}

	return DialSource(ctx, src, opts)
}

// DialSource connects to the candidates of src in order.
func DialSource(ctx context.Context, src AddressSource, opts Options) (*Connection, error) {
	opts = opts.withDefaults()

	var lastErr error
	for {
		addr, ok := src.Next()
		if !ok {
			break
		}

		nc, err := dialAddress(ctx, addr, opts)
		if err != nil {
			opts.Logger.Debug("mpd: connect failed", "address", addr.Addr, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c, err := handshake(nc, addr.String(), opts)
		if err != nil {
			opts.Logger.Debug("mpd: handshake failed", "address", addr.Addr, "error", err)
			return nil, err
		}
		opts.Logger.Debug("mpd: connected", "address", addr.Addr, "version", c.version.String())

		if opts.Password != "" {
			if err := c.Password(opts.Password); err != nil {
				c.Close()
				return nil, err
			}
		}
		return c, nil
	}

	if lastErr == nil {
		return nil, proto.NewError(proto.KindHostNotFound, "no address to connect to")
	}
	return nil, lastErr
}

// NewConnection performs the handshake over an established connection.
// The connection is closed when the handshake fails.
func NewConnection(nc net.Conn, opts Options) (*Connection, error) {
	opts = opts.withDefaults()
	return handshake(nc, fmt.Sprintf("%q", nc.RemoteAddr().String()), opts)
}

func dialAddress(ctx context.Context, addr Address, opts Options) (net.Conn, error) {
	var d net.Dialer
	if opts.Dialer != nil {
		d = *opts.Dialer
	}
	d.Timeout = opts.Timeout

	nc, err := d.DialContext(ctx, addr.Network, addr.Addr)
	if err == nil {
		return nc, nil
	}

	if proto.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return nil, proto.WrapError(proto.KindConnectTimeout, "timeout in attempting to get a response from "+addr.String(), err)
	}
	return nil, proto.WrapError(proto.KindConnectFailed, "problems connecting to "+addr.String(), err)
}

var welcomePrefix = []byte(proto.Welcome)

// handshake reads and validates the greeting. peer names the daemon in error
// messages.
func handshake(nc net.Conn, peer string, opts Options) (*Connection, error) {
	reader := proto.NewReader(nc, opts.BufferSize)
	reader.SetTimeout(opts.Timeout)
	if opts.MaxBufferSize > 0 {
		reader.SetMaxSize(opts.MaxBufferSize)
	}

	line, err := reader.ReadLine()
	if err != nil {
		_ = nc.Close()
		return nil, err
	}

	if !bytes.HasPrefix(line, welcomePrefix) {
		_ = nc.Close()
		return nil, proto.NewError(proto.KindNotMPD, "mpd not running on "+peer)
	}

	version, err := proto.ParseWelcome(line)
	if err != nil {
		_ = nc.Close()
		return nil, err
	}

	return &Connection{
		conn:     nc,
		reader:   reader,
		timeout:  opts.Timeout,
		version:  version,
		logger:   opts.Logger,
		lastUsed: coarsetime.Now(),
	}, nil
}
