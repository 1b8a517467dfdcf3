package proto

import (
	"io"
	"testing"
	"time"

	"github.com/pior/mpd/internal/testutils"
)

func BenchmarkParseLine_Pair(b *testing.B) {
	line := []byte("file: music/Artist/Album/01 - Track.flac")
	for b.Loop() {
		_, _ = ParseLine(line)
	}
}

func BenchmarkParseLine_Ack(b *testing.B) {
	line := []byte("ACK [50@0] {play} No such song")
	for b.Loop() {
		_, _ = ParseLine(line)
	}
}

func BenchmarkReader_ReadLine(b *testing.B) {
	mock := testutils.NewConnectionMock()
	r := NewReader(mock, DefaultBufferSize)
	r.SetTimeout(time.Second)

	for b.Loop() {
		mock.Push("Title: Something\n")
		_, _ = r.ReadLine()
	}
}

func BenchmarkFormatCommand(b *testing.B) {
	for b.Loop() {
		_ = FormatCommand("find", "artist", `Nina "High Priestess" Simone`, "album", "Pastel Blues")
	}
}

type discardDeadlineWriter struct{}

func (discardDeadlineWriter) Write(p []byte) (int, error)     { return io.Discard.Write(p) }
func (discardDeadlineWriter) SetWriteDeadline(time.Time) error { return nil }

func BenchmarkWriteLine(b *testing.B) {
	w := discardDeadlineWriter{}
	for b.Loop() {
		_ = WriteLine(w, time.Second, "status")
	}
}
