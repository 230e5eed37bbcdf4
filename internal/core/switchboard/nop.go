package switchboard

import (
	"context"

	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/types"
)

// NopLink 未挂载链路时的哨兵，所有操作立即返回 ErrLinkDown
type NopLink struct{}

var _ interfaces.Link = (*NopLink)(nil)

// nop 进程内唯一的哨兵实例
var nop = &NopLink{}

// Nop 返回哨兵链路
func Nop() *NopLink {
	return nop
}

// SetEnable 返回 ErrLinkDown
func (*NopLink) SetEnable(bool) error {
	return types.ErrLinkDown
}

// SendPacket 返回 ErrLinkDown
func (*NopLink) SendPacket(types.Packet) error {
	return types.ErrLinkDown
}

// ReceivePacket 返回 ErrLinkDown，不阻塞
func (*NopLink) ReceivePacket(context.Context) (types.Packet, error) {
	return types.Packet{}, types.ErrLinkDown
}
