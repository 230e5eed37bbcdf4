// Package udp 实现基于 UDP 数据报的 CRTP 链路
//
// 每个数据报承载一帧。RemoteAddr 为空时链路工作在被动模式：
// 以最近一次收到合法帧的来源作为对端。
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/dep2p/go-crtp/internal/core/transport"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var logger = log.Logger("transport/udp")

var (
	_ interfaces.Link              = (*Link)(nil)
	_ interfaces.ConnectionChecker = (*Link)(nil)
	_ interfaces.Resetter          = (*Link)(nil)
)

// 读缓冲留有余量，超长数据报按 ErrPacketTooLarge 丢弃
const readBufferSize = 2 * types.MaxFrameSize

// Config 链路配置
type Config struct {
	// LocalAddr 本地监听地址，如 "127.0.0.1:19850"，空表示随机端口
	LocalAddr string

	// RemoteAddr 对端地址，空表示被动模式
	RemoteAddr string

	// InboxSize 收件箱容量
	InboxSize int
}

// Link UDP 链路
type Link struct {
	cfg    Config
	remote *net.UDPAddr
	inbox  *transport.Inbox

	// enableMu 串行化 SetEnable
	enableMu sync.Mutex

	mu      sync.Mutex
	conn    *net.UDPConn
	peer    *net.UDPAddr
	done    chan struct{}
	wg      sync.WaitGroup
	invalid uint64
}

// New 创建链路，地址在此解析，套接字在 SetEnable(true) 时打开
func New(cfg Config) (*Link, error) {
	l := &Link{
		cfg:   cfg,
		inbox: transport.NewInbox(cfg.InboxSize),
		done:  make(chan struct{}),
	}
	close(l.done)

	if cfg.RemoteAddr != "" {
		addr, err := net.ResolveUDPAddr("udp", cfg.RemoteAddr)
		if err != nil {
			return nil, fmt.Errorf("resolve remote %q: %w", cfg.RemoteAddr, err)
		}
		l.remote = addr
		l.peer = addr
	}
	return l, nil
}

// Name 返回链路名称
func (l *Link) Name() string {
	return "udp"
}

// SetEnable 打开或关闭套接字
func (l *Link) SetEnable(enable bool) error {
	l.enableMu.Lock()
	defer l.enableMu.Unlock()

	if enable {
		return l.open()
	}
	l.close()
	return nil
}

func (l *Link) open() error {
	l.mu.Lock()
	opened := l.conn != nil
	l.mu.Unlock()
	if opened {
		return nil
	}

	laddr, err := net.ResolveUDPAddr("udp", l.cfg.LocalAddr)
	if err != nil {
		return fmt.Errorf("resolve local %q: %w", l.cfg.LocalAddr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.done = make(chan struct{})
	l.peer = l.remote
	l.mu.Unlock()

	l.wg.Add(1)
	go l.readLoop(conn)

	logger.Info("udp link opened", "local", conn.LocalAddr().String(), "remote", l.cfg.RemoteAddr)
	return nil
}

func (l *Link) close() {
	l.mu.Lock()
	conn := l.conn
	if conn == nil {
		l.mu.Unlock()
		return
	}
	l.conn = nil
	close(l.done)
	l.mu.Unlock()

	_ = conn.Close()
	l.wg.Wait()

	logger.Info("udp link closed")
}

func (l *Link) readLoop(conn *net.UDPConn) {
	defer l.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Warn("udp read failed", "err", err)
			}
			return
		}

		var p types.Packet
		if err := p.UnmarshalBinary(buf[:n]); err != nil {
			l.mu.Lock()
			l.invalid++
			l.mu.Unlock()
			logger.Debug("drop invalid datagram", "from", from.String(), "size", n, "err", err)
			continue
		}

		if l.remote == nil {
			l.mu.Lock()
			l.peer = from
			l.mu.Unlock()
		}

		if !l.inbox.Push(p) {
			logger.Debug("udp inbox full, frame dropped", "port", p.Port)
		}
	}
}

// SendPacket 把包编码为一个数据报发往对端
func (l *Link) SendPacket(p types.Packet) error {
	l.mu.Lock()
	conn, peer := l.conn, l.peer
	l.mu.Unlock()

	if conn == nil {
		return transport.ErrNotEnabled
	}
	if peer == nil {
		return transport.ErrNoPeer
	}

	frame, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := conn.WriteToUDP(frame, peer); err != nil {
		return fmt.Errorf("udp write: %w", err)
	}
	return nil
}

// ReceivePacket 取出读协程解码的下一个包
func (l *Link) ReceivePacket(ctx context.Context) (types.Packet, error) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	return l.inbox.Pop(ctx, done)
}

// IsConnected 套接字已打开且对端已知
func (l *Link) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil && l.peer != nil
}

// Reset 丢弃未读取的包；被动模式下同时遗忘对端
func (l *Link) Reset() error {
	l.inbox.Drain()
	l.mu.Lock()
	if l.remote == nil {
		l.peer = nil
	}
	l.mu.Unlock()
	return nil
}

// LocalAddr 返回实际监听地址，未开启时为 nil
func (l *Link) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Invalid 返回因解码失败而丢弃的数据报数
func (l *Link) Invalid() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.invalid
}

// Dropped 返回因收件箱满而丢弃的帧数
func (l *Link) Dropped() uint64 {
	return l.inbox.Dropped()
}
