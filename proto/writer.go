package proto

import (
	"io"
	"strings"
	"time"
)

// DeadlineWriter is a stream whose writes can be bounded in time.
// net.Conn implements it.
type DeadlineWriter interface {
	io.Writer
	SetWriteDeadline(t time.Time) error
}

// WriteLine sends line followed by LF.
//
// The deadline is re-armed before every write attempt and the loop advances
// past however many bytes each attempt accepted. Running out of time with
// bytes unsent fails with KindTimeout; any other write failure with KindSend.
func WriteLine(w DeadlineWriter, timeout time.Duration, line string) error {
	command := strings.TrimSuffix(line, "\n")

	buf := make([]byte, 0, len(command)+1)
	buf = append(buf, command...)
	buf = append(buf, LF)

	empty := 0
	for len(buf) > 0 {
		var deadline time.Time
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		if err := w.SetWriteDeadline(deadline); err != nil {
			return WrapError(KindSystem, "failed to set write deadline", err)
		}

		n, err := w.Write(buf)
		buf = buf[n:]
		if err != nil {
			if IsTimeout(err) {
				return WrapError(KindTimeout, "timeout sending command \""+command+"\"", err)
			}
			return WrapError(KindSend, "problems giving command \""+command+"\"", err)
		}

		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return WrapError(KindSend, "problems giving command \""+command+"\"", io.ErrShortWrite)
			}
			continue
		}
		empty = 0
	}

	return nil
}

// FormatCommand builds a command line from a command name and its arguments.
// Every argument is quoted with QuoteArg.
//
//	FormatCommand("find", "artist", `AC/DC "Live"`) == `find "artist" "AC/DC \"Live\""`
func FormatCommand(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}

	var b strings.Builder
	b.WriteString(name)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuoteArg(arg))
	}
	return b.String()
}

// QuoteArg wraps arg in double quotes, escaping backslashes and double quotes.
func QuoteArg(arg string) string {
	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
