package crtp

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-crtp/config"
	"github.com/dep2p/go-crtp/pkg/interfaces"
	"github.com/dep2p/go-crtp/pkg/types"
	"github.com/dep2p/go-crtp/tests/mocks"
	"github.com/dep2p/go-crtp/tests/testutil"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Defaults 测试无可选依赖时的加载
func TestModule_Defaults(t *testing.T) {
	var stack *Stack

	app := fxtest.New(t,
		FxLogger(),
		Module,
		fx.Populate(&stack),
	)
	require.NotNil(t, stack)
	assert.False(t, stack.Started())

	app.RequireStart()
	assert.True(t, stack.Started())
	assert.Equal(t, config.DefaultTxQueueSize, stack.FreeTxSlots())

	app.RequireStop()
	assert.False(t, stack.Started())
}

// TestModule_LinkLifecycle 测试链路随 fx 生命周期挂载和卸载
func TestModule_LinkLifecycle(t *testing.T) {
	link := mocks.NewMockLink("radio")
	var stack *Stack

	app := fxtest.New(t,
		FxLogger(),
		Module,
		fx.Provide(func() interfaces.Link { return link }),
		fx.Populate(&stack),
	)
	app.RequireStart()

	p, err := types.NewPacket(types.PortConsole, 0, []byte("hi"))
	require.NoError(t, err)
	require.NoError(t, stack.Send(p))
	testutil.Eventually(t, testWait, func() bool { return len(link.Sent()) == 1 }, "packet sent through fx-managed stack")

	app.RequireStop()
	assert.Equal(t, []bool{true, false}, link.EnableCalls())
}

// TestModule_MetricsRegistered 测试启用指标时注册 Collector
func TestModule_MetricsRegistered(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enable = true
	cfg.Metrics.Namespace = "drone"
	reg := prometheus.NewPedanticRegistry()

	app := fxtest.New(t,
		FxLogger(),
		Module,
		fx.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return reg }),
	)
	defer app.RequireStart().RequireStop()

	count, err := promtest.GatherAndCount(reg, "drone_tx_queue_free_slots", "drone_stack_started")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestModule_MetricsDisabled 测试默认不注册指标
func TestModule_MetricsDisabled(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()

	app := fxtest.New(t,
		FxLogger(),
		Module,
		fx.Provide(func() prometheus.Registerer { return reg }),
	)
	defer app.RequireStart().RequireStop()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, mfs)
}

// TestModule_InvalidConfig 测试非法配置导致启动失败
func TestModule_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Queue.TxSize = 0

	app := fx.New(
		FxLogger(),
		Module,
		fx.Supply(cfg),
		fx.Invoke(func(*Stack) {}),
	)
	assert.Error(t, app.Err())
}
