package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	crtp "github.com/dep2p/go-crtp"
	"github.com/dep2p/go-crtp/pkg/types"
)

// Link 端口上的通道划分
const (
	linkChannelEcho   types.Channel = 0
	linkChannelSource types.Channel = 1
	linkChannelSink   types.Channel = 2
)

// sourcePayload 是 source 通道应答的固定负载
var sourcePayload = []byte("crtp-bridge link source test..")

// consolePrinter 把 console 端口的文本按行输出
type consolePrinter struct {
	mu  sync.Mutex
	out io.Writer
	buf strings.Builder
}

func (c *consolePrinter) handle(p types.Packet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range p.Payload() {
		if b == '\n' {
			fmt.Fprintf(c.out, "console> %s\n", c.buf.String())
			c.buf.Reset()
			continue
		}
		c.buf.WriteByte(b)
	}
}

// registerServices 在 Stack 上安装桥接服务
//
//   - console 端口：文本逐行打印到 out
//   - link 端口：通道 0 原样回显，通道 1 应答固定负载，通道 2 丢弃
func registerServices(stack *crtp.Stack, out io.Writer) {
	printer := &consolePrinter{out: out}
	stack.RegisterCallback(types.PortConsole, printer.handle)

	stack.RegisterCallback(types.PortLink, func(p types.Packet) {
		var reply types.Packet
		var err error

		switch p.Channel {
		case linkChannelEcho:
			reply, err = types.NewPacket(types.PortLink, linkChannelEcho, p.Payload())
		case linkChannelSource:
			reply, err = types.NewPacket(types.PortLink, linkChannelSource, sourcePayload)
		case linkChannelSink:
			return
		default:
			return
		}
		if err != nil {
			return
		}

		if err := stack.Send(reply); err != nil {
			logger.Debug("link service reply dropped", "channel", p.Channel, "err", err)
		}
	})
}
