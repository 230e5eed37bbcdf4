package config

import (
	"fmt"
	"time"
)

// StatsConfig 吞吐统计配置
type StatsConfig struct {
	// Window 统计窗口长度，每个窗口结束时折算速率并清零计数
	// 默认值: 500ms
	Window Duration `json:"window"`
}

// DefaultStatsConfig 返回默认的统计配置
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{
		Window: Duration(500 * time.Millisecond),
	}
}

// Validate 验证统计配置
func (c *StatsConfig) Validate() error {
	if c.Window.Duration() < time.Millisecond {
		return fmt.Errorf("stats.window must be at least 1ms, got %s", c.Window)
	}
	return nil
}
