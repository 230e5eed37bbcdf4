package crtp

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/config"
	"github.com/dep2p/go-crtp/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	cfg     *config.Config
	clock   clock.Clock
	link    interfaces.Link
	onFault func(error)
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		cfg:   config.NewConfig(),
		clock: clock.New(),
	}
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整配置替换默认值
//
// 之后的选项仍会覆盖其中的字段。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("配置不能为空")
		}
		c := *cfg
		o.cfg = &c
		return nil
	}
}

// WithTxQueueSize 设置发送队列容量
func WithTxQueueSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("发送队列容量必须为正: %d", n)
		}
		o.cfg.Queue.TxSize = n
		return nil
	}
}

// WithRxQueueSize 设置每个端口接收队列容量
func WithRxQueueSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("接收队列容量必须为正: %d", n)
		}
		o.cfg.Queue.RxSize = n
		return nil
	}
}

// WithStatsWindow 设置吞吐统计窗口
func WithStatsWindow(d time.Duration) Option {
	return func(o *options) error {
		o.cfg.Stats.Window = config.Duration(d)
		return nil
	}
}

// ============================================================================
//                              任务选项
// ============================================================================

// WithRetryBackoff 设置链路发送失败后的重试间隔
func WithRetryBackoff(d time.Duration) Option {
	return func(o *options) error {
		o.cfg.Pipeline.RetryBackoff = config.Duration(d)
		return nil
	}
}

// WithIdleDelay 设置 NopLink 挂载时任务的空转间隔
func WithIdleDelay(d time.Duration) Option {
	return func(o *options) error {
		o.cfg.Pipeline.IdleDelay = config.Duration(d)
		return nil
	}
}

// WithOverflowPolicy 设置端口接收队列满时的处理策略
//
// 取值 config.OverflowHalt 或 config.OverflowReport。
func WithOverflowPolicy(policy string) Option {
	return func(o *options) error {
		o.cfg.Pipeline.RxOverflowPolicy = policy
		return nil
	}
}

// WithFaultHandler 设置接收溢出时的通知函数
//
// 在接收任务上同步调用，两种溢出策略下都会触发。
func WithFaultHandler(fn func(error)) Option {
	return func(o *options) error {
		o.onFault = fn
		return nil
	}
}

// WithClock 替换时钟，测试中注入 clock.Mock
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return fmt.Errorf("时钟不能为空")
		}
		o.clock = clk
		return nil
	}
}

// ============================================================================
//                              链路选项
// ============================================================================

// WithLink 指定 Start 时挂载的链路
func WithLink(link interfaces.Link) Option {
	return func(o *options) error {
		o.link = link
		return nil
	}
}
