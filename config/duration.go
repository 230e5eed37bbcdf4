package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Duration 配置中的时间间隔
//
// JSON 中写作字符串（"10ms"、"1s"）或整数毫秒（10）。
// 收发任务的间隔都在毫秒量级，整数按毫秒解释，与飞控固件的配置习惯一致。
// 输出时统一为字符串。
type Duration time.Duration

// UnmarshalText 解析 "10ms" 形式的字符串
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText 输出 time.Duration 的字符串形式
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON 接受字符串或整数毫秒
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return d.UnmarshalText([]byte(s))
	}

	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("duration must be a string like \"10ms\" or integer milliseconds, got %s", data)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Duration 返回 time.Duration
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }
