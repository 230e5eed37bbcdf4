package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/types"
)

// Journal 多个 Mock 共享的调用日志，用于验证跨链路的调用顺序
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Record 追加一条记录
func (j *Journal) Record(entry string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

// Entries 返回记录副本
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// MockLink 模拟 interfaces.Link，记录所有调用
//
// ReceivePacket 从 Inject 注入的收件箱中取包；
// SetEnable(false) 会唤醒阻塞中的 ReceivePacket 并返回 ErrLinkClosed。
type MockLink struct {
	NameValue string
	Journal   *Journal

	// 可覆盖的方法
	SetEnableFunc     func(enable bool) error
	SendPacketFunc    func(p types.Packet) error
	ReceivePacketFunc func(ctx context.Context) (types.Packet, error)

	mu          sync.Mutex
	enableCalls []bool
	sent        []types.Packet
	disabled    chan struct{}

	sendCalls    atomic.Int64
	receiveCalls atomic.Int64

	inbox chan types.Packet
}

var _ interfaces.Link = (*MockLink)(nil)

// NewMockLink 创建 MockLink
func NewMockLink(name string) *MockLink {
	return &MockLink{
		NameValue: name,
		disabled:  make(chan struct{}),
		inbox:     make(chan types.Packet, 256),
	}
}

// Name 返回链路名称
func (m *MockLink) Name() string {
	return m.NameValue
}

// SetEnable 记录开关调用
func (m *MockLink) SetEnable(enable bool) error {
	m.Journal.Record(fmt.Sprintf("%s.enable(%t)", m.NameValue, enable))

	m.mu.Lock()
	m.enableCalls = append(m.enableCalls, enable)
	if enable {
		select {
		case <-m.disabled:
			m.disabled = make(chan struct{})
		default:
		}
	} else {
		select {
		case <-m.disabled:
		default:
			close(m.disabled)
		}
	}
	m.mu.Unlock()

	if m.SetEnableFunc != nil {
		return m.SetEnableFunc(enable)
	}
	return nil
}

// SendPacket 记录发送的包；SendPacketFunc 返回错误时视为链路拒绝
func (m *MockLink) SendPacket(p types.Packet) error {
	m.sendCalls.Add(1)
	if m.SendPacketFunc != nil {
		if err := m.SendPacketFunc(p); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.sent = append(m.sent, p)
	m.mu.Unlock()
	return nil
}

// ReceivePacket 从收件箱取包
func (m *MockLink) ReceivePacket(ctx context.Context) (types.Packet, error) {
	m.receiveCalls.Add(1)
	if m.ReceivePacketFunc != nil {
		return m.ReceivePacketFunc(ctx)
	}

	m.mu.Lock()
	disabled := m.disabled
	m.mu.Unlock()

	select {
	case p := <-m.inbox:
		return p, nil
	case <-disabled:
		return types.Packet{}, types.ErrLinkClosed
	case <-ctx.Done():
		return types.Packet{}, ctx.Err()
	}
}

// Inject 向收件箱注入一个待接收的包
func (m *MockLink) Inject(p types.Packet) {
	m.inbox <- p
}

// Sent 返回已被接受的包
func (m *MockLink) Sent() []types.Packet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Packet(nil), m.sent...)
}

// EnableCalls 返回 SetEnable 参数历史
func (m *MockLink) EnableCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.enableCalls...)
}

// SendCalls 返回 SendPacket 调用次数（含被拒绝的）
func (m *MockLink) SendCalls() int64 {
	return m.sendCalls.Load()
}

// ReceiveCalls 返回 ReceivePacket 调用次数
func (m *MockLink) ReceiveCalls() int64 {
	return m.receiveCalls.Load()
}

// MockCapableLink 额外实现 ConnectionChecker 和 Resetter 的 MockLink
type MockCapableLink struct {
	*MockLink

	Connected  atomic.Bool
	ResetFunc  func() error
	resetCalls atomic.Int64
}

var (
	_ interfaces.ConnectionChecker = (*MockCapableLink)(nil)
	_ interfaces.Resetter          = (*MockCapableLink)(nil)
)

// NewMockCapableLink 创建 MockCapableLink，默认已连接
func NewMockCapableLink(name string) *MockCapableLink {
	m := &MockCapableLink{MockLink: NewMockLink(name)}
	m.Connected.Store(true)
	return m
}

// IsConnected 返回 Connected
func (m *MockCapableLink) IsConnected() bool {
	return m.Connected.Load()
}

// Reset 记录复位调用
func (m *MockCapableLink) Reset() error {
	m.resetCalls.Add(1)
	m.Journal.Record(m.NameValue + ".reset")
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	return nil
}

// ResetCalls 返回 Reset 调用次数
func (m *MockCapableLink) ResetCalls() int64 {
	return m.resetCalls.Load()
}
