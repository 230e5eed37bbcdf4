package transport

import (
	"context"
	"sync/atomic"

	"github.com/dep2p/go-crtp/pkg/types"
)

// DefaultInboxSize 默认收件箱容量
const DefaultInboxSize = 64

// Inbox 链路读协程与 ReceivePacket 之间的有界缓冲
type Inbox struct {
	ch      chan types.Packet
	dropped atomic.Uint64
}

// NewInbox 创建收件箱，size <= 0 时使用 DefaultInboxSize
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{ch: make(chan types.Packet, size)}
}

// Push 非阻塞放入，满时丢弃并返回 false
func (b *Inbox) Push(p types.Packet) bool {
	select {
	case b.ch <- p:
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

// Offer 非阻塞放入，满时返回 false，不计入丢弃数
func (b *Inbox) Offer(p types.Packet) bool {
	select {
	case b.ch <- p:
		return true
	default:
		return false
	}
}

// Pop 取出一个包
//
// done 关闭时返回 types.ErrLinkClosed；done 为 nil 时只等待 ctx。
func (b *Inbox) Pop(ctx context.Context, done <-chan struct{}) (types.Packet, error) {
	select {
	case p := <-b.ch:
		return p, nil
	default:
	}

	select {
	case p := <-b.ch:
		return p, nil
	case <-done:
		return types.Packet{}, types.ErrLinkClosed
	case <-ctx.Done():
		return types.Packet{}, ctx.Err()
	}
}

// Drain 清空收件箱，返回丢弃的包数
func (b *Inbox) Drain() int {
	n := 0
	for {
		select {
		case <-b.ch:
			n++
		default:
			return n
		}
	}
}

// Len 当前缓冲的包数
func (b *Inbox) Len() int {
	return len(b.ch)
}

// Dropped 因收件箱满而丢弃的累计包数
func (b *Inbox) Dropped() uint64 {
	return b.dropped.Load()
}
