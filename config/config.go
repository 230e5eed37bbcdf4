// Package config 提供 CRTP 栈的统一配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Queue.TxSize = 64
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 CRTP 栈的完整配置结构
//
// 配置按照功能模块组织：
//   - Queue: 发送队列与端口接收队列容量
//   - Stats: 吞吐统计窗口
//   - Pipeline: 收发任务的退避与溢出策略
//   - Metrics: Prometheus 指标
type Config struct {
	// Queue 队列配置
	Queue QueueConfig `json:"queue"`

	// Stats 统计配置
	Stats StatsConfig `json:"stats"`

	// Pipeline 收发任务配置
	Pipeline PipelineConfig `json:"pipeline"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
//
// 默认值与飞控固件一致：发送队列 120、端口接收队列 16、
// 统计窗口 500ms、发送重试退避 10ms。
func NewConfig() *Config {
	return &Config{
		Queue:    DefaultQueueConfig(),
		Stats:    DefaultStatsConfig(),
		Pipeline: DefaultPipelineConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Queue.Validate(); err != nil {
		return err
	}
	if err := c.Stats.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}
