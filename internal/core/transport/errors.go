package transport

import "errors"

var (
	// ErrNotEnabled 链路未开启
	ErrNotEnabled = errors.New("link not enabled")

	// ErrNoPeer 尚未获知对端地址
	ErrNoPeer = errors.New("remote peer unknown")

	// ErrRateLimited 发送超出限速
	ErrRateLimited = errors.New("link rate limited")
)
