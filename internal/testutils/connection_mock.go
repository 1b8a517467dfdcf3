package testutils

import (
	"bytes"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrTimeout is a net.Error that reports a deadline expiry.
var ErrTimeout net.Error = timeoutError{}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ConnectionMock is a scripted net.Conn for testing.
//
// Each Read returns at most one of the scripted chunks, so tests control how
// the byte stream is split. Once the chunks are exhausted Read returns ReadErr
// (io.EOF by default). Writes are recorded.
type ConnectionMock struct {
	mu sync.Mutex

	chunks [][]byte

	// ReadErr is returned once all chunks were read.
	ReadErr error

	// WriteErr, if set, is returned by every Write.
	WriteErr error

	// MaxWrite, if > 0, caps the bytes accepted by a single Write.
	MaxWrite int

	writeBuf bytes.Buffer
	closed   bool

	reads          int
	readDeadlines  int
	writeDeadlines int
}

// NewConnectionMock creates a new mock connection returning one chunk per Read.
func NewConnectionMock(chunks ...string) *ConnectionMock {
	m := &ConnectionMock{ReadErr: io.EOF}
	for _, c := range chunks {
		m.chunks = append(m.chunks, []byte(c))
	}
	return m
}

// Push appends chunks to the read script.
func (m *ConnectionMock) Push(chunks ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks = append(m.chunks, []byte(c))
	}
}

func (m *ConnectionMock) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if len(m.chunks) == 0 {
		return 0, m.ReadErr
	}

	n := copy(b, m.chunks[0])
	if n == len(m.chunks[0]) {
		m.chunks = m.chunks[1:]
	} else {
		m.chunks[0] = m.chunks[0][n:]
	}
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if m.MaxWrite > 0 && len(b) > m.MaxWrite {
		b = b[:m.MaxWrite]
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6600}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error {
	m.SetReadDeadline(t)
	return m.SetWriteDeadline(t)
}

func (m *ConnectionMock) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readDeadlines++
	return nil
}

func (m *ConnectionMock) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeDeadlines++
	return nil
}

// Written returns everything written to the mock connection.
func (m *ConnectionMock) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeBuf.String()
}

// WrittenLines returns the written data split into lines.
func (m *ConnectionMock) WrittenLines() []string {
	s := strings.TrimSuffix(m.Written(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Reads returns how many times Read was called.
func (m *ConnectionMock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// WriteDeadlines returns how many times a write deadline was armed.
func (m *ConnectionMock) WriteDeadlines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeDeadlines
}

// IsClosed reports whether Close was called.
func (m *ConnectionMock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
