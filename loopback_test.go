package crtp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-crtp/internal/core/transport/loopback"
	"github.com/dep2p/go-crtp/pkg/types"
	"github.com/dep2p/go-crtp/tests/testutil"
)

// 两个 Stack 经 loopback 链路互连：一端模拟地面站，一端模拟飞控
func TestStack_LoopbackEndToEnd(t *testing.T) {
	hostLink, droneLink := loopback.Pair(loopback.Config{InboxSize: 4})
	host := newStack(t, WithLink(hostLink), WithRxQueueSize(32))
	drone := newStack(t, WithLink(droneLink))

	require.NoError(t, host.InitPortQueue(types.PortParam))

	// 飞控端在回调中应答
	drone.RegisterCallback(types.PortParam, func(p types.Packet) {
		reply, _ := types.NewPacket(types.PortParam, p.Channel, append(p.Payload(), 0x2A))
		_ = drone.Send(reply)
	})

	for i := byte(0); i < 20; i++ {
		req, err := types.NewPacket(types.PortParam, 1, []byte{i})
		require.NoError(t, err)
		require.NoError(t, host.Send(req))
	}

	for i := byte(0); i < 20; i++ {
		reply, err := host.ReceiveWait(types.PortParam, testWait)
		require.NoError(t, err)
		assert.Equal(t, []byte{i, 0x2A}, reply.Payload())
		assert.Equal(t, types.Channel(1), reply.Channel)
	}

	testutil.Eventually(t, testWait, func() bool {
		return host.Stats().TxTotal == 20 && drone.Stats().TxTotal == 20
	}, "all packets counted")
	assert.True(t, host.IsConnected())
}

func TestStack_LoopbackRateLimitedDelivers(t *testing.T) {
	a, b := loopback.Pair(loopback.Config{Rate: 200, Burst: 1})
	sender := newStack(t, WithLink(a))
	receiver := newStack(t, WithLink(b))
	require.NoError(t, receiver.InitPortQueue(types.PortLog))

	for i := byte(0); i < 10; i++ {
		p, err := types.NewPacket(types.PortLog, 0, []byte{i})
		require.NoError(t, err)
		require.NoError(t, sender.Send(p))
	}

	for i := byte(0); i < 10; i++ {
		p, err := receiver.ReceiveWait(types.PortLog, testWait)
		require.NoError(t, err)
		assert.Equal(t, i, p.Data[0], "rate-limited retries keep order")
	}
}

func TestStack_LinkReattachAfterStop(t *testing.T) {
	a, b := loopback.Pair(loopback.Config{})
	s := newStack(t, WithLink(a))
	require.NoError(t, b.SetEnable(true))

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, a.IsConnected(), "stop disables link")

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, a.IsConnected(), "restart attaches link again")
}
