// Package transport 提供 CRTP 链路后端的公共部件
//
// 每个后端实现 interfaces.Link，并按需实现 ConnectionChecker 与 Resetter：
//
//   - loopback: 进程内成对链路，可选令牌桶限速，用于测试和仿真
//   - udp: 每个数据报承载一帧（头部 + 负载）
//   - ws: 每条 WebSocket 二进制消息承载一帧
//
// 网络后端由读协程解码帧并放入 Inbox，ReceivePacket 从 Inbox 取包。
// Inbox 满时新帧被丢弃并计数，不会阻塞读协程。
//
// # 帧格式
//
//	+--------+----------------------+
//	| header | payload (0..30 字节) |
//	+--------+----------------------+
//
// header = (port << 4) | channel，bit 2..3 保留，解码时忽略。
package transport
