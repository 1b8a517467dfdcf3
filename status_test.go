package mpd

import (
	"testing"
	"time"

	"github.com/pior/mpd/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePairs(kv ...string) []proto.Pair {
	var out []proto.Pair
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, proto.Pair{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func TestStatusFromPairs(t *testing.T) {
	s, err := StatusFromPairs(makePairs(
		"volume", "50",
		"repeat", "1",
		"random", "0",
		"single", "oneshot",
		"consume", "0",
		"playlist", "7",
		"playlistlength", "12",
		"state", "pause",
		"song", "3",
		"songid", "4",
		"nextsong", "4",
		"nextsongid", "5",
		"time", "61:240",
		"elapsed", "61.500",
		"duration", "240.123",
		"bitrate", "320",
		"xfade", "2",
		"audio", "44100:24:2",
		"updating_db", "9",
		"error", "problems decoding",
		"mixrampdb", "0.000000",
	))
	require.NoError(t, err)

	assert.Equal(t, 50, s.Volume)
	assert.True(t, s.Repeat)
	assert.False(t, s.Random)
	assert.True(t, s.Single)
	assert.False(t, s.Consume)
	assert.Equal(t, int64(7), s.Playlist)
	assert.Equal(t, 12, s.PlaylistLength)
	assert.Equal(t, StatePause, s.State)
	assert.Equal(t, "pause", s.State.String())
	assert.Equal(t, 3, s.Song)
	assert.Equal(t, 4, s.SongID)
	assert.Equal(t, 4, s.NextSong)
	assert.Equal(t, 5, s.NextSongID)
	assert.Equal(t, 61500*time.Millisecond, s.Elapsed)
	assert.Equal(t, 240*time.Second, s.Total)
	assert.Equal(t, 240123*time.Millisecond, s.Duration)
	assert.Equal(t, 320, s.Bitrate)
	assert.Equal(t, 2*time.Second, s.Crossfade)
	assert.Equal(t, AudioFormat{SampleRate: 44100, Bits: 24, Channels: 2}, s.Audio)
	assert.Equal(t, "44100:24:2", s.Audio.String())
	assert.Equal(t, 9, s.UpdatingDB)
	assert.Equal(t, "problems decoding", s.Error)
}

func TestStatusFromPairs_Defaults(t *testing.T) {
	s, err := StatusFromPairs(makePairs("state", "stop"))
	require.NoError(t, err)

	assert.Equal(t, StateStop, s.State)
	assert.Equal(t, -1, s.Volume)
	assert.Equal(t, int64(-1), s.Playlist)
	assert.Equal(t, -1, s.PlaylistLength)
	assert.Less(t, s.Crossfade, time.Duration(0))
	assert.Equal(t, -1, s.Song)
	assert.Equal(t, -1, s.SongID)
	assert.Equal(t, -1, s.NextSong)
	assert.Equal(t, -1, s.NextSongID)
	assert.Zero(t, s.Elapsed)
}

func TestStatusFromPairs_TimeWithoutElapsed(t *testing.T) {
	s, err := StatusFromPairs(makePairs("state", "play", "time", "12:240"))
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, s.Elapsed)
	assert.Equal(t, 240*time.Second, s.Total)
}

func TestStatusFromPairs_MissingState(t *testing.T) {
	_, err := StatusFromPairs(makePairs("volume", "50"))
	requireKind(t, err, proto.KindMalformed, "state not found")
}

func TestStatusFromPairs_UnknownState(t *testing.T) {
	s, err := StatusFromPairs(makePairs("state", "rewinding"))
	require.NoError(t, err)
	assert.Equal(t, StateUnknown, s.State)
}

func TestConnection_Status(t *testing.T) {
	conn, mock := newMockConnection(t, "volume: 80\nstate: play\nsong: 0\nOK\n")

	s, err := conn.Status()
	require.NoError(t, err)
	assert.Equal(t, 80, s.Volume)
	assert.Equal(t, StatePlay, s.State)
	assert.Equal(t, 0, s.Song)
	assert.Equal(t, []string{"status"}, mock.WrittenLines())
}

func TestConnection_StatusMissingState(t *testing.T) {
	conn, _ := newMockConnection(t, "volume: 80\nOK\n")

	_, err := conn.Status()
	requireKind(t, err, proto.KindMalformed, "state not found")
	assert.Same(t, err, conn.LastError())
	assert.Equal(t, phaseErrored, conn.state.phase)
}
