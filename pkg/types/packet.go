package types

import (
	"encoding/hex"
	"fmt"
)

// ============================================================================
//                              常量
// ============================================================================

const (
	// MaxDataSize 单个包的最大负载字节数
	MaxDataSize = 30

	// MaxFrameSize 线上一帧的最大字节数（头部 + 负载）
	MaxFrameSize = MaxDataSize + 1

	// NumPorts 端口数量（4 bit 地址空间）
	NumPorts = 16

	// NumChannels 每个端口的通道数量（2 bit 子地址）
	NumChannels = 4

	// nullMask 空闲包掩码
	nullMask Header = 0xF3
)

// ============================================================================
//                              Port / Channel
// ============================================================================

// Port 逻辑端口地址（0..15）
type Port uint8

// Valid 检查端口是否在合法范围内
func (p Port) Valid() bool {
	return p < NumPorts
}

// Channel 端口内的子地址（0..3），含义由端口使用者定义
type Channel uint8

// Valid 检查通道是否在合法范围内
func (c Channel) Valid() bool {
	return c < NumChannels
}

// ============================================================================
//                              Header
// ============================================================================

// Header 包头字节
//
// 采用显式的移位/掩码运算，不依赖编译器的位域布局。
type Header byte

// NewHeader 由端口和通道构造头部，保留位恒为 0
func NewHeader(port Port, ch Channel) Header {
	return Header((byte(port)&0x0F)<<4 | byte(ch)&0x03)
}

// Port 返回头部中的端口
func (h Header) Port() Port {
	return Port(byte(h) >> 4)
}

// Channel 返回头部中的通道
func (h Header) Channel() Channel {
	return Channel(byte(h) & 0x03)
}

// IsNull 检查是否为链路层空闲包
func (h Header) IsNull() bool {
	return h&nullMask == nullMask
}

// ============================================================================
//                              Packet
// ============================================================================

// Packet CRTP 数据包
//
// 固定布局的值类型，Data 中只有前 Size 字节有意义。
type Packet struct {
	// Size 有效负载字节数（0..30）
	Size uint8

	// Port 目标/来源端口
	Port Port

	// Channel 端口内通道
	Channel Channel

	// Data 负载缓冲区
	Data [MaxDataSize]byte
}

// NewPacket 由端口、通道和负载构造数据包
func NewPacket(port Port, ch Channel, payload []byte) (Packet, error) {
	var p Packet
	if !port.Valid() {
		return p, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	if !ch.Valid() {
		return p, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	p.Port = port
	p.Channel = ch
	if err := p.SetPayload(payload); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// SetPayload 设置负载，超过 MaxDataSize 返回 ErrPacketTooLarge
func (p *Packet) SetPayload(payload []byte) error {
	if len(payload) > MaxDataSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(payload))
	}
	p.Size = uint8(copy(p.Data[:], payload))
	return nil
}

// Payload 返回有效负载（引用 Data 的切片）
//
// Size 越界时截断到 MaxDataSize，调用方应先用 Validate 检查。
func (p *Packet) Payload() []byte {
	n := int(p.Size)
	if n > MaxDataSize {
		n = MaxDataSize
	}
	return p.Data[:n]
}

// Header 返回包头
func (p Packet) Header() Header {
	return NewHeader(p.Port, p.Channel)
}

// IsNull 检查是否为链路层空闲包
func (p Packet) IsNull() bool {
	return p.Header().IsNull()
}

// Validate 检查包的不变量
func (p Packet) Validate() error {
	if p.Size > MaxDataSize {
		return fmt.Errorf("%w: size %d", ErrPacketTooLarge, p.Size)
	}
	if !p.Port.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPort, p.Port)
	}
	if !p.Channel.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, p.Channel)
	}
	return nil
}

// MarshalBinary 编码为线上帧：头部 + 负载
func (p Packet) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	frame := make([]byte, 1+int(p.Size))
	frame[0] = byte(p.Header())
	copy(frame[1:], p.Data[:p.Size])
	return frame, nil
}

// UnmarshalBinary 从线上帧解码，头部保留位被忽略
func (p *Packet) UnmarshalBinary(frame []byte) error {
	if len(frame) < 1 {
		return ErrFrameTooShort
	}
	if len(frame) > MaxFrameSize {
		return fmt.Errorf("%w: frame of %d bytes", ErrPacketTooLarge, len(frame))
	}
	h := Header(frame[0])
	*p = Packet{
		Port:    h.Port(),
		Channel: h.Channel(),
	}
	p.Size = uint8(copy(p.Data[:], frame[1:]))
	return nil
}

// String 返回包的可读表示
func (p Packet) String() string {
	return fmt.Sprintf("crtp{port=%s ch=%d size=%d data=%s}",
		p.Port, p.Channel, p.Size, hex.EncodeToString(p.Payload()))
}
