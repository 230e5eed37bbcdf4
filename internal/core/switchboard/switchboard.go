// Package switchboard 持有「当前活动链路」并负责安全切换
//
// 活动链路保存在 atomic.Pointer 中，收发任务每次操作前重新读取；
// 切换由互斥锁串行化，顺序固定为：
//  1. 旧链路 SetEnable(false)
//  2. 替换活动链路（nil 替换为 NopLink）
//  3. 新链路 SetEnable(true)
//
// 切换与收发任务之间不是原子的：任务可能在切换期间仍在旧链路上
// 完成一次操作，后端需容忍关闭后被调用。
package switchboard

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
)

var logger = log.Logger("core/switchboard")

// holder 包装接口值以便原子存取
type holder struct {
	link interfaces.Link
}

// Switchboard 活动链路持有者
type Switchboard struct {
	mu     sync.Mutex // 串行化 Set
	active atomic.Pointer[holder]
	swaps  atomic.Uint64
}

// New 创建 Switchboard，初始活动链路为 NopLink
func New() *Switchboard {
	s := &Switchboard{}
	s.active.Store(&holder{link: nop})
	return s
}

// Active 返回当前活动链路，永不为 nil
func (s *Switchboard) Active() interfaces.Link {
	return s.active.Load().link
}

// IsNop 当前是否未挂载链路
func (s *Switchboard) IsNop() bool {
	_, ok := s.Active().(*NopLink)
	return ok
}

// Set 切换活动链路，link 为 nil 时挂载 NopLink
//
// 返回新链路 SetEnable(true) 的结果；NopLink 的 ErrLinkDown 不视为错误。
// 旧链路关闭失败不会阻止切换。
func (s *Switchboard) Set(link interfaces.Link) error {
	if link == nil {
		link = nop
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.Active()
	if _, isNop := old.(*NopLink); !isNop {
		if err := old.SetEnable(false); err != nil {
			logger.Debug("disable previous link failed", "err", err)
		}
	}

	s.active.Store(&holder{link: link})
	s.swaps.Add(1)

	if _, isNop := link.(*NopLink); isNop {
		logger.Info("link detached")
		return nil
	}
	logger.Info("link attached", "link", linkName(link))
	return link.SetEnable(true)
}

// Swaps 返回累计切换次数
func (s *Switchboard) Swaps() uint64 {
	return s.swaps.Load()
}

// IsConnected 委托给活动链路；未实现 ConnectionChecker 时视为已连接
func (s *Switchboard) IsConnected() bool {
	if cc, ok := s.Active().(interfaces.ConnectionChecker); ok {
		return cc.IsConnected()
	}
	return true
}

// ResetLink 若活动链路实现 Resetter 则复位它
func (s *Switchboard) ResetLink() error {
	if r, ok := s.Active().(interfaces.Resetter); ok {
		return r.Reset()
	}
	return nil
}

// linkName 用于日志的链路名称
func linkName(link interfaces.Link) string {
	if n, ok := link.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unnamed"
}
