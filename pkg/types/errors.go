// Package types 定义 CRTP 栈的基础类型
//
// 本文件定义所有公共错误类型。
package types

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              链路相关错误
// ============================================================================

var (
	// ErrLinkDown 没有挂载链路（NopLink 的所有操作都返回该错误）
	ErrLinkDown = errors.New("network down")

	// ErrLinkClosed 链路已关闭
	ErrLinkClosed = errors.New("link closed")
)

// ============================================================================
//                              队列相关错误
// ============================================================================

var (
	// ErrQueueFull 队列已满（非阻塞发送）
	ErrQueueFull = errors.New("queue full")

	// ErrQueueEmpty 队列为空（非阻塞或限时接收）
	ErrQueueEmpty = errors.New("queue empty")

	// ErrRxQueueFull 端口接收队列已满，消费者饥饿
	ErrRxQueueFull = errors.New("rx queue full")
)

// ============================================================================
//                              包与端口错误
// ============================================================================

var (
	// ErrPacketTooLarge 负载超过 MaxDataSize
	ErrPacketTooLarge = errors.New("packet too large")

	// ErrFrameTooShort 帧中缺少头部字节
	ErrFrameTooShort = errors.New("frame too short")

	// ErrInvalidPort 端口超出 0..15
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidChannel 通道超出 0..3
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrPortQueueExists 端口接收队列重复注册
	ErrPortQueueExists = errors.New("port queue already registered")

	// ErrNoPortQueue 端口未注册接收队列
	ErrNoPortQueue = errors.New("port queue not registered")
)

// ============================================================================
//                              RxOverflowError
// ============================================================================

// RxOverflowError 接收任务向端口队列投递失败
//
// errors.Is(err, ErrRxQueueFull) 为 true。
type RxOverflowError struct {
	Port Port
}

// Error 实现 error 接口
func (e *RxOverflowError) Error() string {
	return fmt.Sprintf("crtp rx queue full: port %s", e.Port)
}

// Unwrap 返回 ErrRxQueueFull
func (e *RxOverflowError) Unwrap() error {
	return ErrRxQueueFull
}
