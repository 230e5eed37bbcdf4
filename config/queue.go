package config

import "fmt"

const (
	// DefaultTxQueueSize 默认发送队列容量
	DefaultTxQueueSize = 120

	// DefaultRxQueueSize 默认端口接收队列容量
	DefaultRxQueueSize = 16
)

// QueueConfig 队列配置
type QueueConfig struct {
	// TxSize 共享发送队列容量
	// 默认值: 120
	TxSize int `json:"tx_size"`

	// RxSize 每个端口接收队列容量
	// 默认值: 16
	RxSize int `json:"rx_size"`
}

// DefaultQueueConfig 返回默认的队列配置
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		TxSize: DefaultTxQueueSize,
		RxSize: DefaultRxQueueSize,
	}
}

// Validate 验证队列配置
func (c *QueueConfig) Validate() error {
	if c.TxSize <= 0 {
		return fmt.Errorf("queue.tx_size must be positive, got %d", c.TxSize)
	}
	if c.RxSize <= 0 {
		return fmt.Errorf("queue.rx_size must be positive, got %d", c.RxSize)
	}
	return nil
}
