package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-crtp/pkg/types"
)

func TestInbox_PushPopOrder(t *testing.T) {
	b := NewInbox(2)

	p1, _ := types.NewPacket(types.PortLog, 0, []byte{1})
	p2, _ := types.NewPacket(types.PortLog, 0, []byte{2})
	p3, _ := types.NewPacket(types.PortLog, 0, []byte{3})

	assert.True(t, b.Push(p1))
	assert.True(t, b.Push(p2))
	assert.False(t, b.Push(p3), "full inbox drops")
	assert.Equal(t, uint64(1), b.Dropped())

	got, err := b.Pop(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, byte(1), got.Data[0])
	assert.Equal(t, 1, b.Len())
}

func TestInbox_PopPrefersBufferedOverDone(t *testing.T) {
	b := NewInbox(1)
	p, _ := types.NewPacket(types.PortConsole, 0, []byte("x"))
	b.Push(p)

	done := make(chan struct{})
	close(done)

	got, err := b.Pop(context.Background(), done)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), got.Data[0])

	_, err = b.Pop(context.Background(), done)
	assert.ErrorIs(t, err, types.ErrLinkClosed)
}

func TestInbox_PopContext(t *testing.T) {
	b := NewInbox(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.Pop(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInbox_Drain(t *testing.T) {
	b := NewInbox(4)
	p, _ := types.NewPacket(types.PortConsole, 0, nil)
	b.Push(p)
	b.Push(p)

	assert.Equal(t, 2, b.Drain())
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Drain())
}
