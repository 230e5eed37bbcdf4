// Package queue 实现 CRTP 包的有界 FIFO 队列
//
// 基于带缓冲 channel，提供非阻塞、阻塞和限时三种收发方式。
// 所有操作并发安全。
package queue

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/pkg/types"
)

// Queue 有界包队列，按值拷贝
type Queue struct {
	ch    chan types.Packet
	clock clock.Clock
}

// New 创建容量为 size 的队列，限时操作使用系统时钟
func New(size int) *Queue {
	return NewWithClock(size, nil)
}

// NewWithClock 创建容量为 size 的队列，限时操作使用 clk；clk 为 nil 时使用系统时钟
func NewWithClock(size int, clk clock.Clock) *Queue {
	if size <= 0 {
		size = 1
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Queue{ch: make(chan types.Packet, size), clock: clk}
}

// TrySend 非阻塞入队，队列满返回 ErrQueueFull
func (q *Queue) TrySend(p types.Packet) error {
	select {
	case q.ch <- p:
		return nil
	default:
		return types.ErrQueueFull
	}
}

// Send 阻塞入队，直到有空位或 ctx 结束
func (q *Queue) Send(ctx context.Context, p types.Packet) error {
	select {
	case q.ch <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryRecv 非阻塞出队，队列空返回 ErrQueueEmpty
func (q *Queue) TryRecv() (types.Packet, error) {
	select {
	case p := <-q.ch:
		return p, nil
	default:
		return types.Packet{}, types.ErrQueueEmpty
	}
}

// Recv 阻塞出队，直到有数据或 ctx 结束
func (q *Queue) Recv(ctx context.Context) (types.Packet, error) {
	select {
	case p := <-q.ch:
		return p, nil
	case <-ctx.Done():
		return types.Packet{}, ctx.Err()
	}
}

// RecvTimeout 限时出队，超时返回 ErrQueueEmpty
func (q *Queue) RecvTimeout(timeout time.Duration) (types.Packet, error) {
	if timeout <= 0 {
		return q.TryRecv()
	}

	timer := q.clock.Timer(timeout)
	defer timer.Stop()

	select {
	case p := <-q.ch:
		return p, nil
	case <-timer.C:
		return types.Packet{}, types.ErrQueueEmpty
	}
}

// Len 返回队列中的包数
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap 返回队列容量
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Free 返回剩余空位
func (q *Queue) Free() int {
	return cap(q.ch) - len(q.ch)
}

// Reset 丢弃队列中所有包，返回丢弃数量
//
// 与并发入队交错时，Reset 返回后新入队的包不受影响。
func (q *Queue) Reset() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}
