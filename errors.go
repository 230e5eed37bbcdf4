package crtp

import "github.com/dep2p/go-crtp/pkg/types"

// 公共错误定义，与 pkg/types 中的哨兵错误为同一实例
var (
	// ────────────────────────────────────────────────────────────────────────
	// 链路错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrLinkDown 没有可用链路
	ErrLinkDown = types.ErrLinkDown

	// ErrLinkClosed 链路已关闭
	ErrLinkClosed = types.ErrLinkClosed

	// ────────────────────────────────────────────────────────────────────────
	// 队列错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrQueueFull 发送队列已满
	ErrQueueFull = types.ErrQueueFull

	// ErrQueueEmpty 接收队列为空或等待超时
	ErrQueueEmpty = types.ErrQueueEmpty

	// ErrRxQueueFull 端口接收队列溢出
	ErrRxQueueFull = types.ErrRxQueueFull

	// ────────────────────────────────────────────────────────────────────────
	// 参数错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidPort 端口号越界
	ErrInvalidPort = types.ErrInvalidPort

	// ErrInvalidChannel 通道号越界
	ErrInvalidChannel = types.ErrInvalidChannel

	// ErrPacketTooLarge 载荷超过 30 字节
	ErrPacketTooLarge = types.ErrPacketTooLarge

	// ErrPortQueueExists 端口接收队列已初始化
	ErrPortQueueExists = types.ErrPortQueueExists

	// ErrNoPortQueue 端口接收队列未初始化
	ErrNoPortQueue = types.ErrNoPortQueue
)
