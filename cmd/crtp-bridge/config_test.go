package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-crtp/config"
)

func TestLoadConfig_DefaultWhenEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTxQueueSize, cfg.Queue.TxSize)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"queue":{"tx_size":32},"stats":{"window":"1s"}}`), 0600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Queue.TxSize)
	assert.Equal(t, config.DefaultRxQueueSize, cfg.Queue.RxSize)
	assert.Equal(t, "1s", cfg.Stats.Window.String())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CRTP_TX_QUEUE_SIZE", "64")
	t.Setenv("CRTP_RX_QUEUE_SIZE", "8")
	t.Setenv("CRTP_OVERFLOW_POLICY", " Report ")
	t.Setenv("CRTP_METRICS_ENABLE", "yes")

	cfg := config.NewConfig()
	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, 64, cfg.Queue.TxSize)
	assert.Equal(t, 8, cfg.Queue.RxSize)
	assert.Equal(t, config.OverflowReport, cfg.Pipeline.RxOverflowPolicy)
	assert.True(t, cfg.Metrics.Enable)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvOverrides_BadNumber(t *testing.T) {
	t.Setenv("CRTP_TX_QUEUE_SIZE", "many")
	assert.Error(t, applyEnvOverrides(config.NewConfig()))
}
