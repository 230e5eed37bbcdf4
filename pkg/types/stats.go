package types

import "time"

// ============================================================================
//                              Stats - 吞吐统计
// ============================================================================

// Stats 吞吐统计快照
type Stats struct {
	// RxRate 上一个窗口的接收速率（包/秒）
	RxRate uint16

	// TxRate 上一个窗口的发送速率（包/秒）
	TxRate uint16

	// RxCount 当前窗口内已接收的包数
	RxCount uint32

	// TxCount 当前窗口内已发送的包数
	TxCount uint32

	// RxTotal 累计接收包数
	RxTotal uint64

	// TxTotal 累计发送包数
	TxTotal uint64

	// RxOverflows 累计接收队列溢出次数
	RxOverflows uint64

	// WindowStart 当前窗口起点
	WindowStart time.Time
}
