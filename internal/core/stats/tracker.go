// Package stats 实现窗口化的收发吞吐统计
//
// 统计由收发热路径拉动（每次收发后 Refresh），而不是定时器驱动：
// 当前时间越过窗口终点时，按 count*1s/elapsed 折算速率，
// 清零窗口计数，并把窗口推进到 now+window。
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/pkg/types"
)

// DefaultWindow 默认统计窗口
const DefaultWindow = 500 * time.Millisecond

// Tracker 收发吞吐统计器
//
// 两个任务并发写入，使用互斥锁保护。
type Tracker struct {
	clock  clock.Clock
	window time.Duration

	mu        sync.Mutex
	rxCount   uint32
	txCount   uint32
	rxRate    uint16
	txRate    uint16
	rxTotal   uint64
	txTotal   uint64
	overflows uint64
	prev      time.Time // 窗口起点
	next      time.Time // 窗口终点
}

// New 创建统计器，clk 为 nil 时使用真实时钟
func New(clk clock.Clock, window time.Duration) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	now := clk.Now()
	return &Tracker{
		clock:  clk,
		window: window,
		prev:   now,
		next:   now.Add(window),
	}
}

// RecordRx 记录一个已接收的包并刷新
func (t *Tracker) RecordRx() {
	t.mu.Lock()
	t.rxCount++
	t.rxTotal++
	t.refreshLocked()
	t.mu.Unlock()
}

// RecordTx 记录一个已发送的包并刷新
func (t *Tracker) RecordTx() {
	t.mu.Lock()
	t.txCount++
	t.txTotal++
	t.refreshLocked()
	t.mu.Unlock()
}

// RecordOverflow 记录一次接收队列溢出
func (t *Tracker) RecordOverflow() {
	t.mu.Lock()
	t.overflows++
	t.mu.Unlock()
}

// Refresh 检查窗口是否结束，结束时折算速率
func (t *Tracker) Refresh() {
	t.mu.Lock()
	t.refreshLocked()
	t.mu.Unlock()
}

func (t *Tracker) refreshLocked() {
	now := t.clock.Now()
	if !now.After(t.next) {
		return
	}

	elapsed := now.Sub(t.prev)
	t.rxRate = rate(t.rxCount, elapsed)
	t.txRate = rate(t.txCount, elapsed)

	t.rxCount = 0
	t.txCount = 0
	t.prev = now
	t.next = now.Add(t.window)
}

// rate 折算为包/秒，饱和到 uint16
func rate(count uint32, elapsed time.Duration) uint16 {
	if elapsed <= 0 {
		return 0
	}
	r := float64(count) * float64(time.Second) / float64(elapsed)
	if r > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(r)
}

// Snapshot 返回当前统计快照
func (t *Tracker) Snapshot() types.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return types.Stats{
		RxRate:      t.rxRate,
		TxRate:      t.txRate,
		RxCount:     t.rxCount,
		TxCount:     t.txCount,
		RxTotal:     t.rxTotal,
		TxTotal:     t.txTotal,
		RxOverflows: t.overflows,
		WindowStart: t.prev,
	}
}

// Window 返回窗口长度
func (t *Tracker) Window() time.Duration {
	return t.window
}
