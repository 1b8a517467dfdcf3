package proto

import (
	"bytes"
	"fmt"
	"strconv"
)

// Version is the protocol version announced in the greeting.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1 depending on whether v is lower than, equal to
// or higher than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

// AtLeast reports whether v is major.minor.patch or newer.
func (v Version) AtLeast(major, minor, patch int) bool {
	return v.Compare(Version{Major: major, Minor: minor, Patch: patch}) >= 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var welcomeBytes = []byte(Welcome)

// ParseWelcome validates the greeting line (without its LF) and extracts the
// version.
//
// The prefix is checked before anything else. The version must be exactly
// three non-negative decimal integers joined by dots; any deviation fails with
// KindNotMPD and the raw version text in the message.
func ParseWelcome(line []byte) (Version, error) {
	if !bytes.HasPrefix(line, welcomeBytes) {
		return Version{}, NewError(KindNotMPD, fmt.Sprintf("unexpected greeting %q", line))
	}

	raw := line[len(welcomeBytes):]
	malformed := func() error {
		return NewError(KindNotMPD, fmt.Sprintf("error parsing version number at %q", raw))
	}

	var fields [3]int
	rest := raw
	for i := range fields {
		n := 0
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		if n == 0 {
			return Version{}, malformed()
		}

		v, err := strconv.Atoi(string(rest[:n]))
		if err != nil {
			return Version{}, malformed()
		}
		fields[i] = v
		rest = rest[n:]

		if i < len(fields)-1 {
			if len(rest) == 0 || rest[0] != '.' {
				return Version{}, malformed()
			}
			rest = rest[1:]
		}
	}

	if len(rest) != 0 {
		return Version{}, malformed()
	}

	return Version{Major: fields[0], Minor: fields[1], Patch: fields[2]}, nil
}
