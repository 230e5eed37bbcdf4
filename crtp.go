package crtp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-crtp/config"
	"github.com/dep2p/go-crtp/internal/core/pipeline"
	"github.com/dep2p/go-crtp/internal/core/queue"
	"github.com/dep2p/go-crtp/internal/core/registry"
	"github.com/dep2p/go-crtp/internal/core/stats"
	"github.com/dep2p/go-crtp/internal/core/switchboard"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var logger = log.Logger("crtp")

// Callback 端口回调，在接收任务上同步执行，不能长时间阻塞
type Callback = registry.Callback

// Stack CRTP 传输多路复用栈
//
// Stack 是进程持有的显式上下文对象，聚合了活动链路、端口注册表、
// 发送队列与吞吐统计，并驱动发送/接收两个常驻任务。
// 所有方法并发安全。
type Stack struct {
	cfg   config.Config
	clock clock.Clock

	links    *switchboard.Switchboard
	registry *registry.Registry
	txQueue  *queue.Queue
	stats    *stats.Tracker
	tx       *pipeline.Tx
	rx       *pipeline.Rx

	initialLink interfaces.Link
	onFault     func(error)
	policy      pipeline.OverflowPolicy

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	group   *errgroup.Group

	// faultMu 独立于 mu：Stop 持有 mu 等待任务退出时，接收任务仍可能上报故障
	faultMu sync.Mutex
	fault   error
}

// New 创建 Stack，不启动任务
func New(opts ...Option) (*Stack, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	policy, err := pipeline.ParseOverflowPolicy(o.cfg.Pipeline.RxOverflowPolicy)
	if err != nil {
		return nil, err
	}

	s := &Stack{
		cfg:         *o.cfg,
		clock:       o.clock,
		links:       switchboard.New(),
		registry:    registry.New(o.cfg.Queue.RxSize, o.clock),
		txQueue:     queue.NewWithClock(o.cfg.Queue.TxSize, o.clock),
		stats:       stats.New(o.clock, o.cfg.Stats.Window.Duration()),
		initialLink: o.link,
		onFault:     o.onFault,
		policy:      policy,
	}

	s.tx = pipeline.NewTx(s.txQueue, s.links, s.stats, pipeline.TxConfig{
		RetryBackoff: o.cfg.Pipeline.RetryBackoff.Duration(),
		IdleDelay:    o.cfg.Pipeline.IdleDelay.Duration(),
		Clock:        o.clock,
	})
	s.rx = pipeline.NewRx(s.links, s.registry, s.stats, pipeline.RxConfig{
		IdleDelay:    o.cfg.Pipeline.IdleDelay.Duration(),
		ErrorBackoff: o.cfg.Pipeline.RxErrorBackoff.Duration(),
		Policy:       policy,
		OnFault:      s.reportFault,
		Clock:        o.clock,
	})
	return s, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动发送/接收任务
//
// 幂等：已启动时直接返回 nil。任务的生命周期不受 ctx 取消影响，
// 由 Stop 结束。若通过 WithLink 指定了链路，在此挂载；挂载失败时
// 链路被卸载，Stack 保持未启动状态。
func (s *Stack) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.initialLink != nil {
		if err := s.links.Set(s.initialLink); err != nil {
			// 启动失败时 Stop 不会执行，这里直接卸载
			return multierr.Append(fmt.Errorf("attach link: %w", err), s.links.Set(nil))
		}
	}

	s.faultMu.Lock()
	s.fault = nil
	s.faultMu.Unlock()

	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g := &errgroup.Group{}
	g.Go(func() error { return s.tx.Run(taskCtx) })
	g.Go(func() error { return s.rx.Run(taskCtx) })

	s.cancel = cancel
	s.group = g
	s.started = true

	logger.Info("crtp stack started",
		"tx_queue", s.cfg.Queue.TxSize,
		"rx_queue", s.cfg.Queue.RxSize,
		"overflow_policy", s.policy)
	return nil
}

// Started 报告 Start 是否已完成
func (s *Stack) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Stop 结束任务并卸载活动链路
//
// 若接收任务因溢出而停止，返回对应的 *types.RxOverflowError。
// ctx 到期时不再等待任务退出。
func (s *Stack) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	s.cancel()

	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()

	var err error
	select {
	case werr := <-done:
		err = multierr.Append(err, werr)
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("wait for tasks: %w", ctx.Err()))
	}

	err = multierr.Append(err, s.links.Set(nil))

	logger.Info("crtp stack stopped")
	return err
}

// Err 返回接收任务的停止原因；任务正常运行时为 nil
func (s *Stack) Err() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.fault
}

func (s *Stack) reportFault(err error) {
	var oe *types.RxOverflowError
	if errors.As(err, &oe) && s.policy == pipeline.OverflowHalt {
		s.faultMu.Lock()
		s.fault = err
		s.faultMu.Unlock()
	}
	if s.onFault != nil {
		s.onFault(err)
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              链路
// ════════════════════════════════════════════════════════════════════════════

// SetLink 切换活动链路：旧链路先关闭，新链路再开启
//
// link 为 nil 时挂载 NopLink，此后收发任务空转。
func (s *Stack) SetLink(link interfaces.Link) error {
	return s.links.Set(link)
}

// Link 返回当前活动链路
func (s *Stack) Link() interfaces.Link {
	return s.links.Active()
}

// IsConnected 委托给活动链路；后端没有连接概念时返回 true
func (s *Stack) IsConnected() bool {
	return s.links.IsConnected()
}

// Reset 清空发送队列并复位活动链路（若支持）
//
// 总是返回 nil；链路复位失败只记录日志。
func (s *Stack) Reset() error {
	dropped := s.txQueue.Reset()
	if err := s.links.ResetLink(); err != nil {
		logger.Debug("link reset failed", "err", err)
	}
	logger.Debug("crtp reset", "dropped", dropped)
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              发送
// ════════════════════════════════════════════════════════════════════════════

// Send 非阻塞地把包放入发送队列，队列满返回 ErrQueueFull
func (s *Stack) Send(p types.Packet) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.txQueue.TrySend(p)
}

// SendBlocking 把包放入发送队列，队列满时阻塞直到有空位或 ctx 结束
func (s *Stack) SendBlocking(ctx context.Context, p types.Packet) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.txQueue.Send(ctx, p)
}

// FreeTxSlots 返回发送队列剩余空位
func (s *Stack) FreeTxSlots() int {
	return s.txQueue.Free()
}

// ════════════════════════════════════════════════════════════════════════════
//                              接收
// ════════════════════════════════════════════════════════════════════════════

// InitPortQueue 为端口创建接收队列，每个端口只能调用一次
func (s *Stack) InitPortQueue(port types.Port) error {
	return s.registry.InitQueue(port)
}

// RegisterCallback 安装或替换端口回调，端口越界时静默忽略
func (s *Stack) RegisterCallback(port types.Port, cb Callback) {
	s.registry.RegisterCallback(port, cb)
}

// Receive 非阻塞接收，没有包时返回 ErrQueueEmpty
func (s *Stack) Receive(port types.Port) (types.Packet, error) {
	q, err := s.portQueue(port)
	if err != nil {
		return types.Packet{}, err
	}
	return q.TryRecv()
}

// ReceiveBlocking 阻塞接收，直到有包或 ctx 结束
func (s *Stack) ReceiveBlocking(ctx context.Context, port types.Port) (types.Packet, error) {
	q, err := s.portQueue(port)
	if err != nil {
		return types.Packet{}, err
	}
	return q.Recv(ctx)
}

// ReceiveWait 限时接收，超时返回 ErrQueueEmpty
func (s *Stack) ReceiveWait(port types.Port, timeout time.Duration) (types.Packet, error) {
	q, err := s.portQueue(port)
	if err != nil {
		return types.Packet{}, err
	}
	return q.RecvTimeout(timeout)
}

func (s *Stack) portQueue(port types.Port) (*queue.Queue, error) {
	if !port.Valid() {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidPort, port)
	}
	q := s.registry.Queue(port)
	if q == nil {
		return nil, fmt.Errorf("%w: port %s", types.ErrNoPortQueue, port)
	}
	return q, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              统计
// ════════════════════════════════════════════════════════════════════════════

// Stats 返回吞吐统计快照
func (s *Stack) Stats() types.Stats {
	return s.stats.Snapshot()
}

// Config 返回生效的配置副本
func (s *Stack) Config() config.Config {
	return s.cfg
}
