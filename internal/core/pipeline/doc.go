// Package pipeline 实现 CRTP 的两个常驻任务
//
// # 发送任务（Tx）
//
// 未挂载链路时以 IdleDelay 空转；否则阻塞等待发送队列中的下一个包，
// 取到后在活动链路上反复 SendPacket，每次失败等待 RetryBackoff，
// 直到链路接受。每次重试都重新读取活动链路，切换链路后自动改走新链路。
// 成功后计入发送统计。
//
// # 接收任务（Rx）
//
// 未挂载链路时空转；否则从活动链路接收一个包，然后：
//  1. 若端口注册了接收队列，非阻塞入队
//  2. 入队失败（队列满）按 OverflowPolicy 处理：Halt 停止任务并返回
//     *types.RxOverflowError；Report 上报故障后继续
//  3. 若端口注册了回调，在本任务上同步调用
//  4. 计入接收统计
//
// 两个任务都在 ctx 取消时返回 nil。
package pipeline
