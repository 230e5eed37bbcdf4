package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dep2p/go-crtp/config"
)

// 环境变量（均使用 CRTP_ 前缀）
const (
	envPrefix         = "CRTP_"
	envTxQueueSize    = "TX_QUEUE_SIZE"
	envRxQueueSize    = "RX_QUEUE_SIZE"
	envOverflowPolicy = "OVERFLOW_POLICY"
	envMetricsEnable  = "METRICS_ENABLE"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// loadConfig 加载配置文件，路径为空时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadFile(path)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
//   - CRTP_TX_QUEUE_SIZE: 发送队列容量
//   - CRTP_RX_QUEUE_SIZE: 端口接收队列容量
//   - CRTP_OVERFLOW_POLICY: halt / report
//   - CRTP_METRICS_ENABLE: 启用指标
func applyEnvOverrides(cfg *config.Config) error {
	if v := os.Getenv(envPrefix + envTxQueueSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, envTxQueueSize, err)
		}
		cfg.Queue.TxSize = n
	}

	if v := os.Getenv(envPrefix + envRxQueueSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, envRxQueueSize, err)
		}
		cfg.Queue.RxSize = n
	}

	if v := os.Getenv(envPrefix + envOverflowPolicy); v != "" {
		cfg.Pipeline.RxOverflowPolicy = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(envPrefix + envMetricsEnable); v != "" {
		cfg.Metrics.Enable = parseBool(v)
	}
	return nil
}

// ============================================================================
//                              辅助函数
// ============================================================================

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
