package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 120, cfg.Queue.TxSize)
	assert.Equal(t, 16, cfg.Queue.RxSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Stats.Window.Duration())
	assert.Equal(t, 10*time.Millisecond, cfg.Pipeline.RetryBackoff.Duration())
	assert.Equal(t, 10*time.Millisecond, cfg.Pipeline.IdleDelay.Duration())
	assert.Equal(t, OverflowHalt, cfg.Pipeline.RxOverflowPolicy)
	assert.False(t, cfg.Metrics.Enable)
	assert.Equal(t, "crtp", cfg.Metrics.Namespace)

	require.NoError(t, cfg.Validate())
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"queue": {"tx_size": 64},
		"stats": {"window": "1s"},
		"pipeline": {"retry_backoff": 2, "rx_overflow_policy": "report"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Queue.TxSize)
	assert.Equal(t, 16, cfg.Queue.RxSize, "unset field keeps default")
	assert.Equal(t, time.Second, cfg.Stats.Window.Duration())
	assert.Equal(t, 2*time.Millisecond, cfg.Pipeline.RetryBackoff.Duration())
	assert.Equal(t, OverflowReport, cfg.Pipeline.RxOverflowPolicy)
	require.NoError(t, cfg.Validate())
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"stats": {"window": "soon"}}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"stats": {"window": true}}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Queue.TxSize = 7
	cfg.Stats.Window = Duration(250 * time.Millisecond)

	data, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"window": "250ms"`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestDuration_JSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "250ms", "b": 15}`), &v))
	assert.Equal(t, 250*time.Millisecond, v.A.Duration())
	assert.Equal(t, 15*time.Millisecond, v.B.Duration())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "250ms", "b": "15ms"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a": "soon"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1.5}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tx queue", func(c *Config) { c.Queue.TxSize = 0 }},
		{"negative rx queue", func(c *Config) { c.Queue.RxSize = -1 }},
		{"tiny window", func(c *Config) { c.Stats.Window = Duration(time.Microsecond) }},
		{"zero backoff", func(c *Config) { c.Pipeline.RetryBackoff = 0 }},
		{"zero idle", func(c *Config) { c.Pipeline.IdleDelay = 0 }},
		{"negative rx backoff", func(c *Config) { c.Pipeline.RxErrorBackoff = -1 }},
		{"zero rx backoff", func(c *Config) { c.Pipeline.RxErrorBackoff = 0 }},
		{"unknown policy", func(c *Config) { c.Pipeline.RxOverflowPolicy = "drop" }},
		{"empty namespace", func(c *Config) {
			c.Metrics.Enable = true
			c.Metrics.Namespace = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"queue": {"rx_size": 4}}`), 0o600))
	cfg, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Queue.RxSize)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"queue": {"rx_size": 0}}`), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
