package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-crtp/pkg/types"
)

// Source 指标数据来源
type Source interface {
	Stats() types.Stats
	FreeTxSlots() int
	IsConnected() bool
	Started() bool
	Err() error
}

// Collector 实现 prometheus.Collector
type Collector struct {
	src Source

	rxTotal   *prometheus.Desc
	txTotal   *prometheus.Desc
	overflows *prometheus.Desc
	rxRate    *prometheus.Desc
	txRate    *prometheus.Desc
	txFree    *prometheus.Desc
	connected *prometheus.Desc
	started   *prometheus.Desc
	halted    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建采集器，namespace 为指标名前缀
func NewCollector(namespace string, src Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		src:       src,
		rxTotal:   desc("rx_packets_total", "Packets received from the active link."),
		txTotal:   desc("tx_packets_total", "Packets accepted by the active link."),
		overflows: desc("rx_overflows_total", "Received packets that found their port queue full."),
		rxRate:    desc("rx_rate_packets", "Receive rate over the last statistics window, packets per second."),
		txRate:    desc("tx_rate_packets", "Transmit rate over the last statistics window, packets per second."),
		txFree:    desc("tx_queue_free_slots", "Free slots in the shared transmit queue."),
		connected: desc("link_connected", "1 if the active link reports connected."),
		started:   desc("stack_started", "1 between a successful Start and Stop; see rx_halted for the receive task."),
		halted:    desc("rx_halted", "1 if the receive task stopped on a full port queue."),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rxTotal
	ch <- c.txTotal
	ch <- c.overflows
	ch <- c.rxRate
	ch <- c.txRate
	ch <- c.txFree
	ch <- c.connected
	ch <- c.started
	ch <- c.halted
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.rxTotal, prometheus.CounterValue, float64(s.RxTotal))
	ch <- prometheus.MustNewConstMetric(c.txTotal, prometheus.CounterValue, float64(s.TxTotal))
	ch <- prometheus.MustNewConstMetric(c.overflows, prometheus.CounterValue, float64(s.RxOverflows))
	ch <- prometheus.MustNewConstMetric(c.rxRate, prometheus.GaugeValue, float64(s.RxRate))
	ch <- prometheus.MustNewConstMetric(c.txRate, prometheus.GaugeValue, float64(s.TxRate))
	ch <- prometheus.MustNewConstMetric(c.txFree, prometheus.GaugeValue, float64(c.src.FreeTxSlots()))
	ch <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, boolValue(c.src.IsConnected()))
	ch <- prometheus.MustNewConstMetric(c.started, prometheus.GaugeValue, boolValue(c.src.Started()))
	ch <- prometheus.MustNewConstMetric(c.halted, prometheus.GaugeValue, boolValue(c.src.Err() != nil))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
