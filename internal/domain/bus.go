package domain

import "context"

// SignalBus provides pub/sub fan-out of refresh events to interested
// consumers (the WebSocket hub, headless tape mode).
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// BlobWriter uploads an object to blob storage (tape CSV exports).
type BlobWriter interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}
