package pipeline

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/internal/core/queue"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var txLogger = log.Logger("core/pipeline/tx")

// TxConfig 发送任务配置
type TxConfig struct {
	// RetryBackoff 链路拒绝后的重试间隔
	RetryBackoff time.Duration

	// IdleDelay 未挂载链路时的空转间隔
	IdleDelay time.Duration

	// Clock 时间源，nil 时使用真实时钟
	Clock clock.Clock
}

// Tx 发送任务：把发送队列搬到活动链路上
type Tx struct {
	queue *queue.Queue
	links LinkSource
	stats Recorder
	cfg   TxConfig
}

// NewTx 创建发送任务
func NewTx(q *queue.Queue, links LinkSource, stats Recorder, cfg TxConfig) *Tx {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	cfg.RetryBackoff = orDefault(cfg.RetryBackoff)
	cfg.IdleDelay = orDefault(cfg.IdleDelay)
	return &Tx{
		queue: q,
		links: links,
		stats: stats,
		cfg:   cfg,
	}
}

// Run 运行发送任务直到 ctx 取消
func (t *Tx) Run(ctx context.Context) error {
	txLogger.Debug("tx task started", "queue", t.queue.Cap())
	defer txLogger.Debug("tx task stopped")

	for ctx.Err() == nil {
		if t.links.IsNop() {
			sleep(ctx, t.cfg.Clock, t.cfg.IdleDelay)
			continue
		}

		p, err := t.queue.Recv(ctx)
		if err != nil {
			return nil
		}

		if !t.deliver(ctx, p) {
			txLogger.Debug("tx task stopped with packet in flight", "port", p.Port)
			return nil
		}
		t.stats.RecordTx()
	}
	return nil
}

// deliver 反复尝试直到活动链路接受；ctx 取消时返回 false
func (t *Tx) deliver(ctx context.Context, p types.Packet) bool {
	for {
		if err := t.links.Active().SendPacket(p); err == nil {
			return true
		}
		if !sleep(ctx, t.cfg.Clock, t.cfg.RetryBackoff) {
			return false
		}
	}
}
