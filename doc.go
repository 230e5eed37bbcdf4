// Package crtp 实现 CRTP 传输多路复用核心
//
// CRTP 把 16 个逻辑端口（每个端口 4 个通道）的小包复用到一条可替换的
// 物理链路上。本包提供：
//
//   - Stack: 进程持有的上下文对象，管理活动链路、端口队列与统计
//   - 发送任务: 从发送队列取包，经活动链路发出，失败时按固定间隔重试
//   - 接收任务: 从活动链路收包，按端口分发到接收队列并调用回调
//   - 吞吐统计: 按窗口计算的收发速率
//
// # 快速开始
//
//	stack, err := crtp.New(crtp.WithLink(link))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := stack.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer stack.Stop(context.Background())
//
//	_ = stack.InitPortQueue(types.PortParam)
//	p, _ := types.NewPacket(types.PortParam, 0, []byte{0x01})
//	_ = stack.Send(p)
//	reply, err := stack.ReceiveWait(types.PortParam, 100*time.Millisecond)
//
// # 链路
//
// 链路实现 interfaces.Link。可选实现 interfaces.ConnectionChecker
// 与 interfaces.Resetter，未实现时 IsConnected 返回 true，Reset 只清空发送队列。
// 未挂载链路时使用 NopLink，收发任务空转：Send 照常入队，
// 发送队列满后返回 ErrQueueFull，挂载链路后按序发出。
//
// 模块内置的 loopback（进程内）、udp、ws 链路位于 internal/core/transport，
// 供 cmd/crtp-bridge 使用；外部调用方自行实现 interfaces.Link 并通过
// WithLink 或 SetLink 挂载。
//
// # 文件组织
//
//	crtp.go      Stack 实现
//	options.go   构造选项
//	errors.go    公共错误
//	fx.go        Fx 模块
package crtp
