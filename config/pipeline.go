package config

import (
	"fmt"
	"time"
)

// 接收队列溢出策略
const (
	// OverflowHalt 停止接收任务（固件行为）
	OverflowHalt = "halt"

	// OverflowReport 上报故障后继续运行
	OverflowReport = "report"
)

// PipelineConfig 收发任务配置
type PipelineConfig struct {
	// RetryBackoff 链路拒绝发送后的重试间隔
	// 默认值: 10ms
	RetryBackoff Duration `json:"retry_backoff"`

	// IdleDelay 未挂载链路时的空转间隔
	// 默认值: 10ms
	IdleDelay Duration `json:"idle_delay"`

	// RxErrorBackoff 链路接收报错后的等待间隔
	// 默认值: 10ms
	RxErrorBackoff Duration `json:"rx_error_backoff"`

	// RxOverflowPolicy 端口接收队列满时的处理策略（halt|report）
	// 默认值: halt
	RxOverflowPolicy string `json:"rx_overflow_policy"`
}

// DefaultPipelineConfig 返回默认的收发任务配置
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetryBackoff:     Duration(10 * time.Millisecond),
		IdleDelay:        Duration(10 * time.Millisecond),
		RxErrorBackoff:   Duration(10 * time.Millisecond),
		RxOverflowPolicy: OverflowHalt,
	}
}

// Validate 验证收发任务配置
func (c *PipelineConfig) Validate() error {
	if c.RetryBackoff <= 0 {
		return fmt.Errorf("pipeline.retry_backoff must be positive, got %s", c.RetryBackoff)
	}
	if c.IdleDelay <= 0 {
		return fmt.Errorf("pipeline.idle_delay must be positive, got %s", c.IdleDelay)
	}
	if c.RxErrorBackoff <= 0 {
		return fmt.Errorf("pipeline.rx_error_backoff must be positive, got %s", c.RxErrorBackoff)
	}
	switch c.RxOverflowPolicy {
	case OverflowHalt, OverflowReport:
	default:
		return fmt.Errorf("unknown pipeline.rx_overflow_policy: %q", c.RxOverflowPolicy)
	}
	return nil
}
