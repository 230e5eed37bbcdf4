// Package registry 实现端口注册表
//
// 固定 16 个条目，每个端口可选一个有界接收队列（创建后不销毁）
// 和一个回调（后注册者覆盖先注册者）。
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/internal/core/queue"
	"github.com/dep2p/go-crtp/pkg/types"
)

// Callback 端口回调，在接收任务上同步执行，不能长时间阻塞
type Callback func(p types.Packet)

// entry 单个端口条目
type entry struct {
	queue    atomic.Pointer[queue.Queue]
	callback atomic.Pointer[Callback]
}

// Registry 端口注册表
type Registry struct {
	rxSize int
	clock  clock.Clock

	mu      sync.Mutex // 串行化队列创建
	entries [types.NumPorts]entry
}

// New 创建注册表，rxSize 为每个端口接收队列的容量
//
// clk 驱动接收队列的限时出队，为 nil 时使用系统时钟。
func New(rxSize int, clk clock.Clock) *Registry {
	return &Registry{rxSize: rxSize, clock: clk}
}

// InitQueue 为端口创建接收队列，每个端口只能调用一次
func (r *Registry) InitQueue(port types.Port) error {
	if !port.Valid() {
		return fmt.Errorf("%w: %d", types.ErrInvalidPort, port)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := &r.entries[port]
	if e.queue.Load() != nil {
		return fmt.Errorf("%w: port %s", types.ErrPortQueueExists, port)
	}
	e.queue.Store(queue.NewWithClock(r.rxSize, r.clock))
	return nil
}

// Queue 返回端口的接收队列，未注册时返回 nil
func (r *Registry) Queue(port types.Port) *queue.Queue {
	if !port.Valid() {
		return nil
	}
	return r.entries[port].queue.Load()
}

// RegisterCallback 安装或替换端口回调
//
// 端口越界时静默忽略；cb 为 nil 时移除回调。
func (r *Registry) RegisterCallback(port types.Port, cb Callback) {
	if !port.Valid() {
		return
	}
	if cb == nil {
		r.entries[port].callback.Store(nil)
		return
	}
	r.entries[port].callback.Store(&cb)
}

// Callback 返回端口回调，未注册时返回 nil
func (r *Registry) Callback(port types.Port) Callback {
	if !port.Valid() {
		return nil
	}
	if cb := r.entries[port].callback.Load(); cb != nil {
		return *cb
	}
	return nil
}

// Enqueue 非阻塞地把包投递到其端口队列
//
// 返回值：
//   - queued=false, err=nil: 端口没有接收队列
//   - queued=true,  err=nil: 已入队
//   - err=*RxOverflowError: 队列已满，包未入队
func (r *Registry) Enqueue(p types.Packet) (queued bool, err error) {
	q := r.Queue(p.Port)
	if q == nil {
		return false, nil
	}
	if err := q.TrySend(p); err != nil {
		return false, &types.RxOverflowError{Port: p.Port}
	}
	return true, nil
}
