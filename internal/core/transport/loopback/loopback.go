// Package loopback 实现进程内成对 CRTP 链路
//
// 一端 SendPacket 的包进入另一端的收件箱。对端收件箱满时发送失败，
// 发送任务随之退避重试，形成自然的流控。可选令牌桶限速用于模拟
// 低带宽无线链路。
package loopback

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/dep2p/go-crtp/internal/core/transport"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var logger = log.Logger("transport/loopback")

var (
	_ interfaces.Link              = (*Link)(nil)
	_ interfaces.ConnectionChecker = (*Link)(nil)
	_ interfaces.Resetter          = (*Link)(nil)
)

// Config 链路配置
type Config struct {
	// InboxSize 每端收件箱容量
	InboxSize int

	// Rate 每秒允许发送的包数，0 表示不限速
	Rate float64

	// Burst 令牌桶容量，Rate > 0 时至少为 1
	Burst int
}

// Link 成对链路的一端
type Link struct {
	name    string
	inbox   *transport.Inbox
	limiter *rate.Limiter
	peer    *Link

	enabled atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

// Pair 创建一对互连的链路
func Pair(cfg Config) (*Link, *Link) {
	a := newLink("loopback-a", cfg)
	b := newLink("loopback-b", cfg)
	a.peer = b
	b.peer = a
	return a, b
}

func newLink(name string, cfg Config) *Link {
	l := &Link{
		name:  name,
		inbox: transport.NewInbox(cfg.InboxSize),
		done:  make(chan struct{}),
	}
	close(l.done)
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return l
}

// Name 返回链路名称
func (l *Link) Name() string {
	return l.name
}

// SetEnable 开启或关闭本端
//
// 关闭时唤醒阻塞中的 ReceivePacket。
func (l *Link) SetEnable(enable bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if enable == l.enabled.Load() {
		return nil
	}
	if enable {
		l.done = make(chan struct{})
	} else {
		close(l.done)
	}
	l.enabled.Store(enable)
	logger.Debug("loopback enable", "link", l.name, "enable", enable)
	return nil
}

// SendPacket 把包放入对端收件箱
func (l *Link) SendPacket(p types.Packet) error {
	if !l.enabled.Load() {
		return transport.ErrNotEnabled
	}
	if !l.peer.enabled.Load() {
		return types.ErrLinkDown
	}
	if l.limiter != nil && !l.limiter.Allow() {
		return transport.ErrRateLimited
	}
	if !l.peer.inbox.Offer(p) {
		return types.ErrQueueFull
	}
	return nil
}

// ReceivePacket 从本端收件箱取包
func (l *Link) ReceivePacket(ctx context.Context) (types.Packet, error) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	return l.inbox.Pop(ctx, done)
}

// IsConnected 两端均已开启
func (l *Link) IsConnected() bool {
	return l.enabled.Load() && l.peer.enabled.Load()
}

// Reset 丢弃本端收件箱中尚未读取的包
func (l *Link) Reset() error {
	n := l.inbox.Drain()
	logger.Debug("loopback reset", "link", l.name, "dropped", n)
	return nil
}

// Pending 本端收件箱中待读取的包数
func (l *Link) Pending() int {
	return l.inbox.Len()
}
