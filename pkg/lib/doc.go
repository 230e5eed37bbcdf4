// Package lib 包含基础设施工具库
//
// 本目录包含与架构组件无关的通用工具库：
//
//   - log: 按组件划分的 slog 日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 链路契约（架构核心）
//   - types/: 包、端口、统计等公共类型（架构核心）
//   - lib/: 基础设施工具库（本目录）
package lib
