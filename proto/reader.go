package proto

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"
)

// maxConsecutiveEmptyReads bounds (0, nil) reads before giving up, as bufio does.
const maxConsecutiveEmptyReads = 100

// DeadlineReader is a stream whose reads can be bounded in time.
// net.Conn implements it.
type DeadlineReader interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Reader is the framed receiver: it turns a byte stream into response lines.
//
// It owns a fixed-capacity buffer with a consumed offset (start) and a filled
// length (end), with 0 <= start <= end <= cap at all times. The buffer is only
// refilled when it holds no complete line, and only compacted when it is
// saturated. A line longer than the buffer fails with KindBufferOverrun,
// unless a larger maximum was set with SetMaxSize, in which case the buffer
// grows up to that size.
//
// Reader is not safe for concurrent use.
type Reader struct {
	rd      DeadlineReader
	buf     []byte
	start   int
	end     int
	maxSize int
	timeout time.Duration
}

// NewReader returns a Reader with a buffer of the given capacity.
// A size <= 0 selects DefaultBufferSize.
func NewReader(rd DeadlineReader, size int) *Reader {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Reader{
		rd:      rd,
		buf:     make([]byte, size),
		maxSize: size,
	}
}

// SetTimeout sets how long a single wait for data may take.
// Zero disables the deadline.
func (r *Reader) SetTimeout(d time.Duration) {
	r.timeout = d
}

// SetMaxSize lets the buffer grow up to n bytes instead of failing with
// KindBufferOverrun when a line does not fit. Values below the current
// capacity are ignored.
func (r *Reader) SetMaxSize(n int) {
	if n > len(r.buf) {
		r.maxSize = n
	}
}

// Buffered returns the number of received bytes not yet consumed.
func (r *Reader) Buffered() int {
	return r.end - r.start
}

// Cap returns the current buffer capacity.
func (r *Reader) Cap() int {
	return len(r.buf)
}

// Reset drops all buffered data.
func (r *Reader) Reset() {
	r.start, r.end = 0, 0
}

// ReadLine returns the next line without its terminating LF.
//
// The returned slice points into the internal buffer and is only valid until
// the next call to ReadLine.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(r.buf[r.start:r.end], LF); i >= 0 {
			line := r.buf[r.start : r.start+i]
			r.start += i + 1
			return line, nil
		}

		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

// fill performs a single read into the free tail of the buffer.
func (r *Reader) fill() error {
	if r.start == r.end {
		r.start, r.end = 0, 0
	}

	if r.end == len(r.buf) && r.start > 0 {
		// Delete consumed data from the beginning of the buffer
		copy(r.buf, r.buf[r.start:r.end])
		r.end -= r.start
		r.start = 0
	}

	if r.end == len(r.buf) {
		if len(r.buf) >= r.maxSize {
			return NewError(KindBufferOverrun, "buffer overrun")
		}
		grown := make([]byte, min(2*len(r.buf), r.maxSize))
		copy(grown, r.buf[:r.end])
		r.buf = grown
	}

	for range maxConsecutiveEmptyReads {
		if err := r.armDeadline(); err != nil {
			return WrapError(KindSystem, "failed to set read deadline", err)
		}

		n, err := r.rd.Read(r.buf[r.end:])
		if n > 0 {
			// A read error that came with data resurfaces on the next read.
			r.end += n
			return nil
		}

		if err != nil {
			if IsTimeout(err) {
				return WrapError(KindTimeout, "connection timeout", err)
			}
			return WrapError(KindClosed, "connection closed", err)
		}
	}

	return WrapError(KindClosed, "connection closed", io.ErrNoProgress)
}

func (r *Reader) armDeadline() error {
	if r.timeout <= 0 {
		return r.rd.SetReadDeadline(time.Time{})
	}
	return r.rd.SetReadDeadline(time.Now().Add(r.timeout))
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
