package mpd

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pior/mpd/proto"
)

// Environment variables read by SettingsFromEnv.
const (
	EnvHost    = "MPD_HOST"
	EnvPort    = "MPD_PORT"
	EnvTimeout = "MPD_TIMEOUT"
)

// DefaultTimeout bounds every wait when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Address is one connection candidate.
type Address struct {
	// Network is "tcp" or "unix".
	Network string

	// Addr is what net.Dial takes: "ip:port" or a socket path.
	Addr string

	// Host and Port are the user-facing names, used in error messages.
	Host string
	Port int
}

// IsUnix reports whether the candidate is a local socket.
func (a Address) IsUnix() bool {
	return a.Network == "unix"
}

func (a Address) String() string {
	if a.IsUnix() {
		return fmt.Sprintf("socket %q", a.Host)
	}
	return fmt.Sprintf("%q on port %d", a.Host, a.Port)
}

// AddressSource yields connection candidates in order.
type AddressSource interface {
	// Next returns the next candidate, or false when there is none left.
	Next() (Address, bool)
}

// AddressList is an AddressSource over a fixed list.
type AddressList struct {
	addrs []Address
	pos   int
}

// NewAddressList returns a source yielding addrs in order.
func NewAddressList(addrs ...Address) *AddressList {
	return &AddressList{addrs: addrs}
}

func (l *AddressList) Next() (Address, bool) {
	if l.pos >= len(l.addrs) {
		return Address{}, false
	}
	a := l.addrs[l.pos]
	l.pos++
	return a, true
}

// Len returns the number of candidates not yet returned.
func (l *AddressList) Len() int {
	return len(l.addrs) - l.pos
}

// isSocketPath reports whether host names a local socket: an absolute path or
// a Linux abstract socket name.
func isSocketPath(host string) bool {
	return strings.HasPrefix(host, "/") || strings.HasPrefix(host, "@")
}

// Resolve turns host and port into connection candidates.
//
// A host starting with "/" or "@" is a local socket and yields one candidate;
// the port is ignored. Any other host is looked up and yields one TCP candidate
// per address, in resolver order. An empty host selects DefaultHost, a port
// <= 0 selects DefaultPort.
func Resolve(ctx context.Context, resolver *net.Resolver, host string, port int) (*AddressList, error) {
	if host == "" {
		host = proto.DefaultHost
	}
	if port <= 0 {
		port = proto.DefaultPort
	}

	if isSocketPath(host) {
		return NewAddressList(Address{Network: "unix", Addr: host, Host: host}), nil
	}

	if resolver == nil {
		resolver = net.DefaultResolver
	}

	ips, err := resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, proto.WrapError(proto.KindHostNotFound, fmt.Sprintf("host %q not found", host), err)
	}
	if len(ips) == 0 {
		return nil, proto.NewError(proto.KindHostNotFound, fmt.Sprintf("host %q not found", host))
	}

	addrs := make([]Address, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, Address{
			Network: "tcp",
			Addr:    net.JoinHostPort(ip, strconv.Itoa(port)),
			Host:    host,
			Port:    port,
		})
	}
	return NewAddressList(addrs...), nil
}

// Settings are the connection parameters resolved from explicit values, the
// environment and the defaults, in that order.
type Settings struct {
	Host     string
	Port     int
	Timeout  time.Duration
	Password string
}

// SettingsFromEnv reads MPD_HOST, MPD_PORT and MPD_TIMEOUT.
//
// MPD_HOST may carry a password as "password@host". MPD_TIMEOUT is in
// seconds. Unset or unparseable values fall back to the defaults.
func SettingsFromEnv() Settings {
	return NewSettings("", 0, 0)
}

// NewSettings fills the zero values of host, port and timeout from the
// environment, then from the defaults.
func NewSettings(host string, port int, timeout time.Duration) Settings {
	s := Settings{Host: host, Port: port, Timeout: timeout}

	if s.Host == "" {
		s.Host, s.Password = splitPassword(os.Getenv(EnvHost))
	}
	if s.Host == "" {
		s.Host = proto.DefaultHost
	}

	if s.Port <= 0 {
		if v, err := strconv.Atoi(os.Getenv(EnvPort)); err == nil && v > 0 {
			s.Port = v
		}
	}
	if s.Port <= 0 {
		s.Port = proto.DefaultPort
	}

	if s.Timeout <= 0 {
		if v, err := strconv.ParseFloat(os.Getenv(EnvTimeout), 64); err == nil && v > 0 {
			s.Timeout = time.Duration(v * float64(time.Second))
		}
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}

	return s
}

// splitPassword splits "password@host". A leading "@" is an abstract socket
// name, not a separator.
func splitPassword(value string) (host, password string) {
	i := strings.IndexByte(value, '@')
	if i <= 0 {
		return value, ""
	}
	return value[i+1:], value[:i]
}
