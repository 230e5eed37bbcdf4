package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crtp "github.com/dep2p/go-crtp"
	"github.com/dep2p/go-crtp/internal/core/transport/loopback"
	"github.com/dep2p/go-crtp/pkg/types"
	"github.com/dep2p/go-crtp/tests/testutil"
)

const testWait = 2 * time.Second

// syncBuffer 并发安全的输出缓冲
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newBridge 创建运行桥接服务的 bridge 与通过 loopback 连到它的 peer
func newBridge(t *testing.T) (bridge, peer *crtp.Stack, out *syncBuffer) {
	t.Helper()
	a, b := loopback.Pair(loopback.Config{})

	start := func(opts ...crtp.Option) *crtp.Stack {
		s, err := crtp.New(append(opts, crtp.WithIdleDelay(time.Millisecond), crtp.WithRetryBackoff(time.Millisecond))...)
		require.NoError(t, err)
		require.NoError(t, s.Start(context.Background()))
		t.Cleanup(func() { _ = s.Stop(context.Background()) })
		return s
	}

	out = &syncBuffer{}
	bridge = start(crtp.WithLink(a))
	registerServices(bridge, out)
	peer = start(crtp.WithLink(b))
	require.NoError(t, peer.InitPortQueue(types.PortLink))
	return bridge, peer, out
}

func TestServices_LinkEcho(t *testing.T) {
	_, peer, _ := newBridge(t)

	req, err := types.NewPacket(types.PortLink, linkChannelEcho, []byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, peer.Send(req))

	reply, err := peer.ReceiveWait(types.PortLink, testWait)
	require.NoError(t, err)
	assert.Equal(t, req, reply)
}

func TestServices_LinkSourceAndSink(t *testing.T) {
	_, peer, _ := newBridge(t)

	sink, err := types.NewPacket(types.PortLink, linkChannelSink, []byte("discard"))
	require.NoError(t, err)
	require.NoError(t, peer.Send(sink))

	src, err := types.NewPacket(types.PortLink, linkChannelSource, nil)
	require.NoError(t, err)
	require.NoError(t, peer.Send(src))

	reply, err := peer.ReceiveWait(types.PortLink, testWait)
	require.NoError(t, err)
	assert.Equal(t, linkChannelSource, reply.Channel, "sink produces no reply")
	assert.Equal(t, sourcePayload, reply.Payload())
	assert.Len(t, sourcePayload, types.MaxDataSize)
}

func TestServices_ConsoleLines(t *testing.T) {
	_, peer, out := newBridge(t)

	for _, chunk := range []string{"hel", "lo\nwor", "ld\n"} {
		p, err := types.NewPacket(types.PortConsole, 0, []byte(chunk))
		require.NoError(t, err)
		require.NoError(t, peer.Send(p))
	}

	testutil.Eventually(t, testWait, func() bool {
		return out.String() == "console> hello\nconsole> world\n"
	}, "console lines printed")
}
