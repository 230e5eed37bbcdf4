// Package mocks 提供统一的测试 Mock 实现
//
// # 链路 Mock
//
//   - MockLink: 模拟 interfaces.Link，记录开关、发送、接收调用
//   - MockCapableLink: 额外实现 ConnectionChecker 与 Resetter
//   - Journal: 多个 Mock 共享的调用日志，用于验证跨链路的调用顺序
//
// # 设计原则
//
// 1. 函数式注入: 通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 记录调用历史，便于验证测试行为
//
// # 使用示例
//
//	j := &mocks.Journal{}
//	a := mocks.NewMockLink("a")
//	a.Journal = j
//	a.SendPacketFunc = func(types.Packet) error { return errors.New("busy") }
package mocks
