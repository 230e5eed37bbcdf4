package pipeline

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/internal/core/registry"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var rxLogger = log.Logger("core/pipeline/rx")

// RxConfig 接收任务配置
type RxConfig struct {
	// IdleDelay 未挂载链路时的空转间隔
	IdleDelay time.Duration

	// ErrorBackoff 链路接收报错后的等待间隔，非正值按 DefaultDelay 处理
	ErrorBackoff time.Duration

	// Policy 端口接收队列满时的处理策略
	Policy OverflowPolicy

	// OnFault 接收队列溢出时调用（两种策略都会调用）
	OnFault func(err error)

	// Clock 时间源，nil 时使用真实时钟
	Clock clock.Clock
}

// Rx 接收任务：从活动链路取包并分发到端口
type Rx struct {
	links    LinkSource
	registry *registry.Registry
	stats    Recorder
	cfg      RxConfig
}

// NewRx 创建接收任务
func NewRx(links LinkSource, reg *registry.Registry, stats Recorder, cfg RxConfig) *Rx {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	cfg.IdleDelay = orDefault(cfg.IdleDelay)
	cfg.ErrorBackoff = orDefault(cfg.ErrorBackoff)
	return &Rx{
		links:    links,
		registry: reg,
		stats:    stats,
		cfg:      cfg,
	}
}

// Run 运行接收任务直到 ctx 取消
//
// OverflowHalt 策略下遇到满队列时返回 *types.RxOverflowError。
func (r *Rx) Run(ctx context.Context) error {
	rxLogger.Debug("rx task started", "policy", r.cfg.Policy)
	defer rxLogger.Debug("rx task stopped")

	for ctx.Err() == nil {
		if r.links.IsNop() {
			sleep(ctx, r.cfg.Clock, r.cfg.IdleDelay)
			continue
		}

		p, err := r.links.Active().ReceivePacket(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			sleep(ctx, r.cfg.Clock, r.cfg.ErrorBackoff)
			continue
		}

		if err := r.Dispatch(p); err != nil {
			rxLogger.Warn("rx task halted", "err", err)
			return err
		}
	}
	return nil
}

// Dispatch 把一个已接收的包分发到端口队列和回调
func (r *Rx) Dispatch(p types.Packet) error {
	if _, err := r.registry.Enqueue(p); err != nil {
		r.stats.RecordOverflow()
		if r.cfg.OnFault != nil {
			r.cfg.OnFault(err)
		}
		if r.cfg.Policy == OverflowHalt {
			return err
		}
	}

	if cb := r.registry.Callback(p.Port); cb != nil {
		cb(p)
	}

	r.stats.RecordRx()
	return nil
}
