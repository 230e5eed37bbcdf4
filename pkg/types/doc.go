// Package types 定义 CRTP 栈的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，通过队列按值拷贝传递。
//
// # 文件组织
//
//   - packet.go - Packet, Header, Port, Channel 以及线格式编解码
//   - ports.go  - 固件约定的知名端口
//   - stats.go  - 吞吐统计快照
//   - errors.go - 公共错误定义
//
// # 线格式
//
// 一帧 = 1 字节头部 + 最多 30 字节负载，长度由底层链路的分帧传达：
//
//	bit 7..4   bit 3..2   bit 1..0
//	  port     reserved   channel
//
// 头部满足 (header & 0xF3) == 0xF3 的包是链路层空闲/保活包（null packet）。
package types
