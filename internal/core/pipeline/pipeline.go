package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-crtp/pkg/interfaces"
)

// LinkSource 提供活动链路
type LinkSource interface {
	// Active 返回当前活动链路，永不为 nil
	Active() interfaces.Link

	// IsNop 当前是否未挂载链路
	IsNop() bool
}

// Recorder 吞吐统计写入端
type Recorder interface {
	RecordRx()
	RecordTx()
	RecordOverflow()
}

// OverflowPolicy 端口接收队列满时的处理策略
type OverflowPolicy int

const (
	// OverflowHalt 停止接收任务
	OverflowHalt OverflowPolicy = iota
	// OverflowReport 上报故障后继续，包不入队
	OverflowReport
)

// String 返回策略名称
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowHalt:
		return "halt"
	case OverflowReport:
		return "report"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy 解析策略名称
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "halt", "":
		return OverflowHalt, nil
	case "report":
		return OverflowReport, nil
	default:
		return OverflowHalt, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// DefaultDelay 未配置或配置为非正值时使用的等待间隔
const DefaultDelay = 10 * time.Millisecond

// orDefault 非正值回落到 DefaultDelay，避免任务空转
func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultDelay
	}
	return d
}

// sleep 在 clk 上等待 d，ctx 取消时提前返回 false
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) bool {
	t := clk.Timer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
