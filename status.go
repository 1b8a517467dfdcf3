package mpd

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pior/mpd/proto"
)

// State is the player state.
type State uint8

const (
	StateUnknown State = iota
	StateStop
	StatePlay
	StatePause
)

func (s State) String() string {
	switch s {
	case StateStop:
		return "stop"
	case StatePlay:
		return "play"
	case StatePause:
		return "pause"
	default:
		return "unknown"
	}
}

func parseState(v string) State {
	switch v {
	case "stop":
		return StateStop
	case "play":
		return StatePlay
	case "pause":
		return StatePause
	default:
		return StateUnknown
	}
}

// AudioFormat is the format of the audio being played.
type AudioFormat struct {
	SampleRate uint32
	Bits       uint8
	Channels   uint8
}

func (f AudioFormat) String() string {
	return strconv.FormatUint(uint64(f.SampleRate), 10) + ":" +
		strconv.FormatUint(uint64(f.Bits), 10) + ":" +
		strconv.FormatUint(uint64(f.Channels), 10)
}

// Status is the daemon status as reported by the status command.
// Volume, Playlist, PlaylistLength and the song positions are -1 when the
// daemon did not report them; Crossfade is negative.
type Status struct {
	Volume  int
	Repeat  bool
	Random  bool
	Single  bool
	Consume bool

	Playlist       int64
	PlaylistLength int

	State      State
	Song       int
	SongID     int
	NextSong   int
	NextSongID int

	Elapsed  time.Duration
	Total    time.Duration
	Duration time.Duration

	Bitrate   int
	Crossfade time.Duration
	Audio     AudioFormat

	UpdatingDB int
	Error      string
}

// StatusFromPairs builds a Status from the pairs of a status response.
// Unknown pairs are ignored. A response without state is malformed.
func StatusFromPairs(pairs []proto.Pair) (*Status, error) {
	s := &Status{
		Volume:         -1,
		Playlist:       -1,
		PlaylistLength: -1,
		Song:           -1,
		SongID:         -1,
		NextSong:       -1,
		NextSongID:     -1,
		Crossfade:      -1,
	}

	hasState := false
	preciseElapsed := false

	for _, p := range pairs {
		switch p.Name {
		case "volume":
			s.Volume = atoi(p.Value)
		case "repeat":
			s.Repeat = p.Value == "1"
		case "random":
			s.Random = p.Value == "1"
		case "single":
			s.Single = p.Value == "1" || p.Value == "oneshot"
		case "consume":
			s.Consume = p.Value == "1" || p.Value == "oneshot"
		case "playlist":
			s.Playlist, _ = strconv.ParseInt(p.Value, 10, 64)
		case "playlistlength":
			s.PlaylistLength = atoi(p.Value)
		case "state":
			s.State = parseState(p.Value)
			hasState = true
		case "song":
			s.Song = atoi(p.Value)
		case "songid":
			s.SongID = atoi(p.Value)
		case "nextsong":
			s.NextSong = atoi(p.Value)
		case "nextsongid":
			s.NextSongID = atoi(p.Value)
		case "time":
			elapsed, total, _ := strings.Cut(p.Value, ":")
			if !preciseElapsed {
				s.Elapsed = time.Duration(atoi(elapsed)) * time.Second
			}
			s.Total = time.Duration(atoi(total)) * time.Second
		case "elapsed":
			s.Elapsed = seconds(p.Value)
			preciseElapsed = true
		case "duration":
			s.Duration = seconds(p.Value)
		case "bitrate":
			s.Bitrate = atoi(p.Value)
		case "xfade":
			s.Crossfade = seconds(p.Value)
		case "audio":
			s.Audio = parseAudioFormat(p.Value)
		case "updating_db":
			s.UpdatingDB = atoi(p.Value)
		case "error":
			s.Error = p.Value
		}
	}

	if !hasState {
		return nil, proto.NewError(proto.KindMalformed, "state not found")
	}
	return s, nil
}

// Status sends the status command and builds the result. A malformed
// response is kept as the connection error.
func (c *Connection) Status() (*Status, error) {
	pairs, err := c.Exec(proto.CmdStatus)
	if err != nil {
		return nil, err
	}

	s, err := StatusFromPairs(pairs)
	if err != nil {
		return nil, c.fail(err)
	}
	return s, nil
}

func parseAudioFormat(v string) AudioFormat {
	rate, rest, _ := strings.Cut(v, ":")
	bits, channels, _ := strings.Cut(rest, ":")
	return AudioFormat{
		SampleRate: uint32(atoi(rate)),
		Bits:       uint8(atoi(bits)),
		Channels:   uint8(atoi(channels)),
	}
}

// atoi parses a leading decimal integer, returning 0 when there is none.
func atoi(v string) int {
	n, _, ok := leadingInt(v)
	if !ok {
		return 0
	}
	return n
}

func leadingInt(v string) (int, string, bool) {
	i := 0
	if i < len(v) && v[i] == '-' {
		i++
	}
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(v[:i])
	if err != nil {
		return 0, v, false
	}
	return n, v[i:], true
}

func seconds(v string) time.Duration {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return time.Duration(math.Round(f * float64(time.Second)))
}
