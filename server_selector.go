package mpd

import (
	"github.com/pior/mpd/internal/jumphash"
	"github.com/zeebo/xxh3"
)

// ServerSelector picks the server for a zone (a room, a player name, any
// routing key). It returns an index into the server list.
type ServerSelector func(zone string, serverCount int) int

// DefaultServerSelector uses Jump Hash over xxh3, so a zone keeps its daemon
// and adding a daemon only moves 1/n of the zones.
func DefaultServerSelector(zone string, serverCount int) int {
	return jumphash.Hash(xxh3.HashString(zone), serverCount)
}

// staticSelector is used in tests to always select a specific server.
func staticSelector(index int) ServerSelector {
	return func(zone string, serverCount int) int {
		return index % serverCount
	}
}
