package proto

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Pair is one "name: value" response line.
type Pair struct {
	Name  string
	Value string
}

// Element is one classified response line. Pair is only set for ElementPair.
type Element struct {
	Type ElementType
	Pair Pair
}

var (
	lineOKBytes     = []byte(LineOK)
	lineListOKBytes = []byte(LineListOK)
	ackPrefixBytes  = []byte(AckPrefix)
)

// ParseLine classifies a response line (without its LF).
//
// OK and list_OK lines become terminator elements, "name: value" lines become
// pairs. An ACK line is returned as a KindServer *Error, a line that is none of
// these as a KindMalformed *Error.
func ParseLine(line []byte) (Element, error) {
	if bytes.Equal(line, lineOKBytes) {
		return Element{Type: ElementOK}, nil
	}

	if bytes.Equal(line, lineListOKBytes) {
		return Element{Type: ElementListOK}, nil
	}

	if bytes.HasPrefix(line, ackPrefixBytes) {
		return Element{}, ParseAck(line)
	}

	pair, err := ParsePair(line)
	if err != nil {
		return Element{}, err
	}
	return Element{Type: ElementPair, Pair: pair}, nil
}

// ParsePair splits a "name: value" line. The separator is the first colon and
// it must be followed by exactly the single space that is stripped.
func ParsePair(line []byte) (Pair, error) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return Pair{}, NewError(KindMalformed, "error parsing: "+string(line))
	}

	value := line[i+1:]
	if len(value) == 0 || value[0] != ' ' {
		return Pair{}, NewError(KindMalformed, "error parsing: "+string(line[:i])+":"+string(value))
	}

	return Pair{Name: string(line[:i]), Value: string(value[1:])}, nil
}

// ParseAck turns an ACK line into a KindServer error.
//
// The whole line is kept as Message. The "[code@position]" fragment is parsed
// on a best-effort basis: Code is set once "[<int>@" is read, At once
// "<int>]" follows. A missing or broken fragment leaves them unknown.
// The "{command}" and the trailing text are kept in Command and Text.
func ParseAck(line []byte) *Error {
	s := string(line)

	e := NewError(KindServer, truncateMessage(s, MaxErrorMessage))

	rest := strings.TrimPrefix(s, AckPrefix)

	if open := strings.IndexByte(s, '['); open >= 0 {
		if code, tail, ok := parseInt(s[open+1:]); ok && strings.HasPrefix(tail, "@") {
			e.Code = AckCode(code)
			if at, tail, ok := parseInt(tail[1:]); ok && strings.HasPrefix(tail, "]") {
				e.At = at
				rest = tail[1:]
			}
		}
	}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		if end := strings.IndexByte(rest, '}'); end > 0 {
			e.Command = rest[1:end]
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	e.Text = rest

	return e
}

// parseInt reads an optionally signed decimal integer at the start of s.
func parseInt(s string) (int, string, bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, s, false
	}

	v, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return v, s[i:], true
}

func truncateMessage(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
