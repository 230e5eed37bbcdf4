// Package interfaces 定义 CRTP 栈的公共接口
//
// 链路后端（无线电、USB、UDP、WebSocket 等）只需实现 Link，
// 可选实现 ConnectionChecker 与 Resetter 两个能力接口。
// 栈通过类型断言探测可选能力：
//   - 未实现 ConnectionChecker 视为「始终已连接」
//   - 未实现 Resetter 视为「复位为空操作」
package interfaces
