// Package interfaces 定义 CRTP 栈的公共接口
//
// 本文件定义 Link 接口，抽象底层链路后端。
package interfaces

import (
	"context"

	"github.com/dep2p/go-crtp/pkg/types"
)

// Link 定义链路后端接口
//
// 同一时刻栈只持有一个活动链路。切换时旧链路先收到 SetEnable(false)，
// 新链路随后收到 SetEnable(true)。发送/接收可能与 SetEnable(false)
// 并发发生，后端需要容忍这种情况（返回错误即可）。
type Link interface {
	// SetEnable 开启/关闭底层收发活动
	SetEnable(enable bool) error

	// SendPacket 非阻塞地尝试发送一个包，失败时由发送任务退避重试
	SendPacket(p types.Packet) error

	// ReceivePacket 接收一个包，阻塞/超时行为由后端决定，
	// ctx 取消时必须返回
	ReceivePacket(ctx context.Context) (types.Packet, error)
}

// ConnectionChecker 可选能力：报告链路是否已连接
type ConnectionChecker interface {
	IsConnected() bool
}

// Resetter 可选能力：复位链路
type Resetter interface {
	Reset() error
}
