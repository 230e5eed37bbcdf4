package crtp

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-crtp/config"
	"github.com/dep2p/go-crtp/internal/core/metrics"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/lib/log"
)

var fxLogger = log.Logger("crtp/fx")

// ════════════════════════════════════════════════════════════════════════════
//                              Fx 模块
// ════════════════════════════════════════════════════════════════════════════

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	// 配置，缺省时使用 config.NewConfig()
	UnifiedCfg *config.Config `optional:"true"`

	// 启动时挂载的链路
	Link interfaces.Link `optional:"true"`

	// 指标注册表，Metrics.Enable 为真时注册 Collector
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 是 crtp 的 Fx 模块
//
// 提供 *Stack，并把 Start/Stop 挂到 fx 生命周期上。
var Module = fx.Module("crtp",
	fx.Provide(ProvideStack),
	fx.Invoke(registerLifecycle),
)

// ProvideStack 从模块输入创建 Stack
func ProvideStack(input ModuleInput) (*Stack, error) {
	opts := []Option{}
	if input.UnifiedCfg != nil {
		opts = append(opts, WithConfig(input.UnifiedCfg))
	}
	if input.Link != nil {
		opts = append(opts, WithLink(input.Link))
	}

	stack, err := New(opts...)
	if err != nil {
		return nil, err
	}

	if stack.cfg.Metrics.Enable && input.Registerer != nil {
		collector := metrics.NewCollector(stack.cfg.Metrics.Namespace, stack)
		if err := input.Registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		fxLogger.Debug("metrics collector registered", "namespace", stack.cfg.Metrics.Namespace)
	}
	return stack, nil
}

func registerLifecycle(lc fx.Lifecycle, stack *Stack) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return stack.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return stack.Stop(ctx)
		},
	})
}

// FxLogger 返回静默的 fx 事件日志选项
func FxLogger() fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	})
}
