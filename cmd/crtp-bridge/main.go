// Package main 提供 crtp-bridge 命令行入口
//
// crtp-bridge 在 UDP 或 WebSocket 链路上运行一个 CRTP Stack，
// 打印 console 端口输出，应答 link 端口的回显请求，
// 并可通过 HTTP 暴露 Prometheus 指标。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	crtp "github.com/dep2p/go-crtp"
	"github.com/dep2p/go-crtp/internal/core/transport/udp"
	"github.com/dep2p/go-crtp/internal/core/transport/ws"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
)

var logger = log.Logger("crtp/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 链路参数
	// ─────────────────────────────────────────────────────────────────────
	linkKind   = flag.String("link", "udp", "链路类型 (udp/ws/ws-listen)")
	localAddr  = flag.String("local", "127.0.0.1:19850", "UDP 本地地址")
	remoteAddr = flag.String("remote", "", "UDP 对端地址（空 = 被动模式）")
	wsURL      = flag.String("ws-url", "ws://127.0.0.1:19851/crtp", "WebSocket 对端地址（-link ws）")
	wsListen   = flag.String("ws-listen", "127.0.0.1:19851", "WebSocket 监听地址（-link ws-listen）")

	// ─────────────────────────────────────────────────────────────────────
	// 运行参数
	// ─────────────────────────────────────────────────────────────────────
	configFile    = flag.String("config", "", "配置文件路径")
	metricsAddr   = flag.String("metrics", "", "Prometheus 指标监听地址（空 = 不启用）")
	statsInterval = flag.Duration("stats-interval", 5*time.Second, "吞吐统计日志间隔（0 = 关闭）")
	logLevel      = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(crtp.VersionInfo())
		return nil
	}

	if *logLevel != "" {
		lvl, ok := log.ParseLevel(*logLevel)
		if !ok {
			return fmt.Errorf("未知日志级别: %q", *logLevel)
		}
		log.SetLevel(lvl)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return fmt.Errorf("环境变量错误: %w", err)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enable = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	app := fx.New(
		crtp.FxLogger(),
		fx.Supply(cfg),
		fx.Provide(newRegistry),
		linkOption(),
		crtp.Module,
		fx.Invoke(
			func(stack *crtp.Stack) { registerServices(stack, os.Stdout) },
			registerStatsLogger,
			registerMetricsServer,
			registerWSListener,
		),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("构建失败: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	logger.Info("crtp-bridge started", "version", crtp.Version, "link", *linkKind)
	fmt.Println("crtp-bridge 已启动，按 Ctrl+C 退出")
	waitForSignal()
	fmt.Println("\n正在关闭...")

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	return app.Stop(stopCtx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件装配
// ════════════════════════════════════════════════════════════════════════════

// registryOut 同时以 Registerer 和 Gatherer 提供同一注册表
type registryOut struct {
	fx.Out

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func newRegistry() registryOut {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registryOut{Registerer: reg, Gatherer: reg}
}

// linkOption 按 -link 提供启动时挂载的链路
//
// ws-listen 模式下不提供链路，连接接入后再挂载。
func linkOption() fx.Option {
	switch *linkKind {
	case "udp":
		return fx.Provide(func() (interfaces.Link, error) {
			return udp.New(udp.Config{LocalAddr: *localAddr, RemoteAddr: *remoteAddr})
		})
	case "ws":
		return fx.Provide(func() interfaces.Link {
			return ws.Dial(ws.Config{URL: *wsURL})
		})
	case "ws-listen":
		return fx.Options()
	default:
		return fx.Error(fmt.Errorf("未知链路类型: %q", *linkKind))
	}
}

// registerWSListener 在 ws-listen 模式下接受连接并切换为活动链路
func registerWSListener(lc fx.Lifecycle, stack *crtp.Stack) {
	if *linkKind != "ws-listen" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/crtp", ws.Handler(ws.Config{}, func(l *ws.Link) {
		if err := stack.SetLink(l); err != nil {
			logger.Warn("attach ws link failed", "err", err)
		}
	}))
	registerHTTPServer(lc, *wsListen, mux)
}

// registerMetricsServer 暴露 /metrics
func registerMetricsServer(lc fx.Lifecycle, gatherer prometheus.Gatherer) {
	if *metricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	registerHTTPServer(lc, *metricsAddr, mux)
}

func registerHTTPServer(lc fx.Lifecycle, addr string, handler http.Handler) {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", "addr", addr, "err", err)
				}
			}()
			logger.Info("http server listening", "addr", ln.Addr().String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// registerStatsLogger 周期性记录吞吐统计
func registerStatsLogger(lc fx.Lifecycle, stack *crtp.Stack) {
	if *statsInterval <= 0 {
		return
	}

	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(*statsInterval)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						st := stack.Stats()
						logger.Info("crtp stats",
							"rx_rate", st.RxRate,
							"tx_rate", st.TxRate,
							"rx_total", st.RxTotal,
							"tx_total", st.TxTotal,
							"rx_overflows", st.RxOverflows,
							"connected", stack.IsConnected(),
							"free_tx", stack.FreeTxSlots())
						if err := stack.Err(); err != nil {
							logger.Error("rx task halted", "err", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(done)
			return nil
		},
	})
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}
