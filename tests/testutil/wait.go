// Package testutil 提供测试辅助函数
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// PollInterval 轮询间隔
const PollInterval = 5 * time.Millisecond

// Eventually 在 timeout 内轮询 condition，超时则 fail 测试
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return len(link.Sent()) == 3
//	}, "all packets sent")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	require.Eventually(t, condition, timeout, PollInterval, msg)
}

// Never 在 d 时间内持续检查 condition 从未成立
func Never(t *testing.T, d time.Duration, condition func() bool, msg string) {
	t.Helper()
	require.Never(t, condition, d, PollInterval, msg)
}
