// Package ws 实现基于 WebSocket 的 CRTP 链路
//
// 每条二进制消息承载一帧，文本消息被忽略。主动端通过 Dial 创建，
// 在 SetEnable(true) 时拨号；被动端由 Handler 在升级成功后交付。
package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-crtp/internal/core/transport"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
	"github.com/dep2p/go-crtp/pkg/types"
)

var logger = log.Logger("transport/ws")

var (
	_ interfaces.Link              = (*Link)(nil)
	_ interfaces.ConnectionChecker = (*Link)(nil)
	_ interfaces.Resetter          = (*Link)(nil)
)

const (
	// DefaultDialTimeout 默认拨号超时
	DefaultDialTimeout = 5 * time.Second

	// DefaultWriteTimeout 默认单帧写超时
	DefaultWriteTimeout = time.Second
)

// Config 链路配置
type Config struct {
	// URL 对端地址，如 "ws://127.0.0.1:8080/crtp"，被动端不使用
	URL string

	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// WriteTimeout 单帧写超时
	WriteTimeout time.Duration

	// InboxSize 收件箱容量
	InboxSize int
}

func (c *Config) withDefaults() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Link WebSocket 链路
type Link struct {
	cfg    Config
	dialer *websocket.Dialer
	inbox  *transport.Inbox

	// enableMu 串行化 SetEnable
	enableMu sync.Mutex

	mu       sync.Mutex
	conn     *websocket.Conn
	accepted *websocket.Conn
	done     chan struct{}
	wg       sync.WaitGroup

	writeMu   sync.Mutex
	connected atomic.Bool
}

func newLink(cfg Config) *Link {
	cfg.withDefaults()
	l := &Link{
		cfg:    cfg,
		dialer: websocket.DefaultDialer,
		inbox:  transport.NewInbox(cfg.InboxSize),
		done:   make(chan struct{}),
	}
	close(l.done)
	return l
}

// Dial 创建主动端链路，连接在 SetEnable(true) 时建立
func Dial(cfg Config) *Link {
	return newLink(cfg)
}

// Accept 用已升级的连接创建被动端链路
//
// 连接只能使用一次：关闭后再次开启返回 types.ErrLinkClosed。
func Accept(conn *websocket.Conn, cfg Config) *Link {
	l := newLink(cfg)
	l.accepted = conn
	return l
}

// Name 返回链路名称
func (l *Link) Name() string {
	return "ws"
}

// SetEnable 建立或关闭连接
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
	if l.conn != nil {
		l.mu.Unlock()
		return nil
	}
	conn := l.accepted
	l.accepted = nil
	l.mu.Unlock()

	if conn == nil {
		if l.cfg.URL == "" {
			return types.ErrLinkClosed
		}
		ctx, cancel := context.WithTimeout(context.Background(), l.cfg.DialTimeout)
		defer cancel()

		c, resp, err := l.dialer.DialContext(ctx, l.cfg.URL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			return fmt.Errorf("dial %s: %w", l.cfg.URL, err)
		}
		conn = c
	}
	conn.SetReadLimit(int64(2 * types.MaxFrameSize))

	l.mu.Lock()
	l.conn = conn
	l.done = make(chan struct{})
	l.mu.Unlock()
	l.connected.Store(true)

	l.wg.Add(1)
	go l.readLoop(conn)

	logger.Info("ws link opened", "remote", conn.RemoteAddr().String())
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
	l.connected.Store(false)

	l.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(l.cfg.WriteTimeout))
	l.writeMu.Unlock()
	_ = conn.Close()
	l.wg.Wait()

	logger.Info("ws link closed")
}

func (l *Link) readLoop(conn *websocket.Conn) {
	defer l.wg.Done()
	defer l.connected.Store(false)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				logger.Debug("ws read stopped", "err", err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}

		var p types.Packet
		if err := p.UnmarshalBinary(data); err != nil {
			logger.Debug("drop invalid frame", "size", len(data), "err", err)
			continue
		}
		if !l.inbox.Push(p) {
			logger.Debug("ws inbox full, frame dropped", "port", p.Port)
		}
	}
}

// SendPacket 把包编码为一条二进制消息
func (l *Link) SendPacket(p types.Packet) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		return transport.ErrNotEnabled
	}
	if !l.connected.Load() {
		return types.ErrLinkDown
	}

	frame, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("ws write: %w", err)
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

// IsConnected 连接已建立且读协程仍在运行
func (l *Link) IsConnected() bool {
	return l.connected.Load()
}

// Reset 丢弃未读取的包
func (l *Link) Reset() error {
	l.inbox.Drain()
	return nil
}

// ============================================================================
//                              服务端
// ============================================================================

// Handler 返回升级 HTTP 请求为链路的处理器
//
// 每个成功升级的连接创建一个被动端链路并交给 onLink，
// 由调用方决定何时挂载（通常是 Stack.SetLink）。
func Handler(cfg Config, onLink func(*Link)) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  256,
		WriteBufferSize: 256,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		logger.Debug("ws connection accepted", "remote", r.RemoteAddr)
		onLink(Accept(conn, cfg))
	})
}
