package promexporter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/mpd"
)

type fakeSource struct {
	stats mpd.ClientStats
	pools []mpd.ServerPoolStats
}

func (f *fakeSource) Stats() mpd.ClientStats              { return f.stats }
func (f *fakeSource) AllPoolStats() []mpd.ServerPoolStats { return f.pools }

func newFakeSource() *fakeSource {
	return &fakeSource{
		stats: mpd.ClientStats{Commands: 12, Batches: 3, Idles: 2, ServerErrors: 1, Errors: 4},
		pools: []mpd.ServerPoolStats{{
			Addr: "kitchen:6600",
			PoolStats: mpd.PoolStats{
				AcquireCount:      20,
				AcquireWaitCount:  5,
				CreatedConns:      3,
				DestroyedConns:    1,
				AcquireErrors:     2,
				AcquireWaitTimeNs: 1_500_000_000,
				TotalConns:        2,
				IdleConns:         1,
				ActiveConns:       1,
			},
			CircuitBreakerState:  gobreaker.StateOpen,
			CircuitBreakerCounts: gobreaker.Counts{Requests: 7, TotalFailures: 4, ConsecutiveFailures: 3},
		}},
	}
}

func TestCollector_ClientStats(t *testing.T) {
	c := NewCollector(newFakeSource())

	expected := `
# HELP mpd_commands_total Total number of single commands executed
# TYPE mpd_commands_total counter
mpd_commands_total 12
# HELP mpd_errors_total Total number of failed operations
# TYPE mpd_errors_total counter
mpd_errors_total{type="other"} 4
mpd_errors_total{type="server"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "mpd_commands_total", "mpd_errors_total")
	require.NoError(t, err)
}

func TestCollector_PoolStats(t *testing.T) {
	c := NewCollector(newFakeSource())

	expected := `
# HELP mpd_pool_connections Connection pool statistics
# TYPE mpd_pool_connections gauge
mpd_pool_connections{server="kitchen:6600",state="active"} 1
mpd_pool_connections{server="kitchen:6600",state="idle"} 1
mpd_pool_connections{server="kitchen:6600",state="total"} 2
# HELP mpd_pool_acquire_wait_seconds_total Total time spent waiting for a connection
# TYPE mpd_pool_acquire_wait_seconds_total counter
mpd_pool_acquire_wait_seconds_total{server="kitchen:6600"} 1.5
# HELP mpd_circuit_breaker_state Circuit breaker state (0=closed, 1=half-open, 2=open)
# TYPE mpd_circuit_breaker_state gauge
mpd_circuit_breaker_state{server="kitchen:6600"} 2
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mpd_pool_connections", "mpd_pool_acquire_wait_seconds_total", "mpd_circuit_breaker_state")
	require.NoError(t, err)
}

func TestCollector_Count(t *testing.T) {
	source := newFakeSource()
	c := NewCollector(source)

	// 5 client series, 9 pool series and 4 breaker series per server.
	assert.Equal(t, 18, testutil.CollectAndCount(c))

	source.pools = append(source.pools, mpd.ServerPoolStats{Addr: "office:6600"})
	assert.Equal(t, 31, testutil.CollectAndCount(c))
	assert.Equal(t, 6, testutil.CollectAndCount(c, "mpd_pool_connections"))
}

func TestExporter_Handler(t *testing.T) {
	e := NewExporter(newFakeSource())

	server := httptest.NewServer(e.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mpd_commands_total 12")
	assert.Contains(t, string(body), `mpd_pool_connections_created_total{server="kitchen:6600"} 3`)
}

func TestExporter_RealClient(t *testing.T) {
	client, err := mpd.NewClient([]string{"127.0.0.1:6600"}, mpd.Config{MaxSize: 1})
	require.NoError(t, err)
	defer client.Close()

	e := NewExporter(client)
	problems, err := testutil.GatherAndLint(e.Registry())
	require.NoError(t, err)
	assert.Empty(t, problems)
}
