package queue

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-crtp/pkg/types"
)

func pkt(t *testing.T, b byte) types.Packet {
	t.Helper()
	p, err := types.NewPacket(types.PortLog, 0, []byte{b})
	require.NoError(t, err)
	return p
}

func TestQueue_FIFO(t *testing.T) {
	q := New(4)
	for i := byte(0); i < 3; i++ {
		require.NoError(t, q.TrySend(pkt(t, i)))
	}

	for i := byte(0); i < 3; i++ {
		p, err := q.TryRecv()
		require.NoError(t, err)
		assert.Equal(t, i, p.Data[0])
	}

	_, err := q.TryRecv()
	assert.ErrorIs(t, err, types.ErrQueueEmpty)
}

func TestQueue_Full(t *testing.T) {
	q := New(2)
	require.NoError(t, q.TrySend(pkt(t, 1)))
	require.NoError(t, q.TrySend(pkt(t, 2)))
	assert.Equal(t, 0, q.Free())
	assert.ErrorIs(t, q.TrySend(pkt(t, 3)), types.ErrQueueFull)
}

func TestQueue_SendBlocksUntilSpace(t *testing.T) {
	q := New(1)
	require.NoError(t, q.TrySend(pkt(t, 1)))

	second := pkt(t, 2)
	done := make(chan error, 1)
	go func() {
		done <- q.Send(context.Background(), second)
	}()

	select {
	case <-done:
		t.Fatal("Send returned while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	p, err := q.TryRecv()
	require.NoError(t, err)
	assert.Equal(t, byte(1), p.Data[0])

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Send did not unblock")
	}

	p, err = q.TryRecv()
	require.NoError(t, err)
	assert.Equal(t, byte(2), p.Data[0])
}

func TestQueue_SendContextCancel(t *testing.T) {
	q := New(1)
	require.NoError(t, q.TrySend(pkt(t, 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Send(ctx, pkt(t, 2)), context.DeadlineExceeded)
}

func TestQueue_RecvBlocking(t *testing.T) {
	q := New(1)

	p9 := pkt(t, 9)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = q.TrySend(p9)
	}()

	p, err := q.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(9), p.Data[0])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.Recv(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_RecvTimeout(t *testing.T) {
	q := New(1)

	start := time.Now()
	_, err := q.RecvTimeout(30 * time.Millisecond)
	assert.ErrorIs(t, err, types.ErrQueueEmpty)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	require.NoError(t, q.TrySend(pkt(t, 5)))
	p, err := q.RecvTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, byte(5), p.Data[0])

	_, err = q.RecvTimeout(0)
	assert.ErrorIs(t, err, types.ErrQueueEmpty)
}

func TestQueue_RecvTimeoutFollowsClock(t *testing.T) {
	clk := clock.NewMock()
	q := NewWithClock(1, clk)

	done := make(chan error, 1)
	go func() {
		_, err := q.RecvTimeout(time.Hour)
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("returned before the clock advanced: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	require.Eventually(t, func() bool {
		clk.Add(time.Hour)
		select {
		case err := <-done:
			assert.ErrorIs(t, err, types.ErrQueueEmpty)
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_Reset(t *testing.T) {
	q := New(8)
	for i := byte(0); i < 5; i++ {
		require.NoError(t, q.TrySend(pkt(t, i)))
	}
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, 3, q.Free())

	assert.Equal(t, 5, q.Reset())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 8, q.Free())
	assert.Equal(t, 8, q.Cap())
}
