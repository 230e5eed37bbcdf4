// Package metrics 把 CRTP 栈的运行状态导出为 Prometheus 指标
//
// Collector 在每次抓取时从 Source 读取快照，不在热路径上做任何工作：
//
//	c := metrics.NewCollector("crtp", stack)
//	prometheus.MustRegister(c)
//
// # 导出指标
//
//	crtp_rx_packets_total       counter  累计接收包数
//	crtp_tx_packets_total       counter  累计发送包数
//	crtp_rx_overflows_total     counter  接收队列溢出次数
//	crtp_rx_rate_packets        gauge    上一窗口接收速率（包/秒）
//	crtp_tx_rate_packets        gauge    上一窗口发送速率（包/秒）
//	crtp_tx_queue_free_slots    gauge    发送队列剩余空位
//	crtp_link_connected         gauge    活动链路是否已连接
//	crtp_stack_started          gauge    栈是否已启动
package metrics
