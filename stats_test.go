package mpd

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pior/mpd/proto"
	"github.com/stretchr/testify/assert"
)

func TestClientStatsCollector(t *testing.T) {
	c := newClientStatsCollector()

	c.recordCommand()
	c.recordCommand()
	c.recordBatch()
	c.recordIdle()
	c.recordError(nil)
	c.recordError(proto.ParseAck([]byte("ACK [50@0] {play} No such song")))
	c.recordError(fmt.Errorf("exec: %w", proto.NewError(proto.KindServer, "ACK")))
	c.recordError(proto.NewError(proto.KindTimeout, "connection timeout"))

	assert.Equal(t, ClientStats{Commands: 2, Batches: 1, Idles: 1, ServerErrors: 2, Errors: 1}, c.snapshot())
}

func TestClientStatsCollector_Concurrent(t *testing.T) {
	c := newClientStatsCollector()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.recordCommand()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), c.snapshot().Commands)
}
