package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-crtp/pkg/types"
)

type fakeSource struct {
	stats     types.Stats
	free      int
	connected bool
	started   bool
	err       error
}

func (f *fakeSource) Stats() types.Stats { return f.stats }
func (f *fakeSource) FreeTxSlots() int   { return f.free }
func (f *fakeSource) IsConnected() bool  { return f.connected }
func (f *fakeSource) Started() bool      { return f.started }
func (f *fakeSource) Err() error         { return f.err }

func TestCollector_Values(t *testing.T) {
	src := &fakeSource{
		stats: types.Stats{
			RxRate:      500,
			TxRate:      20,
			RxTotal:     1234,
			TxTotal:     56,
			RxOverflows: 2,
		},
		free:      118,
		connected: true,
		started:   true,
	}
	c := NewCollector("crtp", src)

	expected := `
# HELP crtp_rx_packets_total Packets received from the active link.
# TYPE crtp_rx_packets_total counter
crtp_rx_packets_total 1234
# HELP crtp_tx_queue_free_slots Free slots in the shared transmit queue.
# TYPE crtp_tx_queue_free_slots gauge
crtp_tx_queue_free_slots 118
# HELP crtp_link_connected 1 if the active link reports connected.
# TYPE crtp_link_connected gauge
crtp_link_connected 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"crtp_rx_packets_total", "crtp_tx_queue_free_slots", "crtp_link_connected"))
	assert.Equal(t, 9, testutil.CollectAndCount(c))
}

func TestCollector_Registers(t *testing.T) {
	src := &fakeSource{}
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector("fc", src)))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]float64)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetGauge() != nil:
			names[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetCounter() != nil:
			names[mf.GetName()] = m.GetCounter().GetValue()
		}
	}

	assert.Contains(t, names, "fc_rx_rate_packets")
	assert.Contains(t, names, "fc_stack_started")
	assert.Equal(t, 0.0, names["fc_link_connected"])
	assert.Equal(t, 0.0, names["fc_rx_halted"])
	assert.Len(t, names, 9)
}

func TestCollector_HaltedWhileStarted(t *testing.T) {
	src := &fakeSource{
		started: true,
		err:     &types.RxOverflowError{Port: types.PortParam},
	}
	c := NewCollector("crtp", src)

	expected := `
# HELP crtp_rx_halted 1 if the receive task stopped on a full port queue.
# TYPE crtp_rx_halted gauge
crtp_rx_halted 1
# HELP crtp_stack_started 1 between a successful Start and Stop; see rx_halted for the receive task.
# TYPE crtp_stack_started gauge
crtp_stack_started 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"crtp_rx_halted", "crtp_stack_started"))
}
