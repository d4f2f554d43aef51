// Package metrics wraps a DataDog statsd client (the same
// github.com/DataDog/datadog-go/v5/statsd dependency the teacher used) behind
// an explicitly-constructed Client. The teacher's internal/stats package
// used a package-level singleton populated by an Initialize call; Design
// Notes flags exactly this shape for settings ("global cached accessor") and
// the same fix applies here: the composition root constructs one Client and
// passes it to whatever needs it, nothing reaches for a global.
package metrics

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Client emits counters and timers when enabled, and is a safe no-op
// otherwise so callers never need to branch on whether metrics are on.
type Client struct {
	enabled bool
	sink    *statsd.Client
}

// New constructs a Client. When enabled is false, addr is never dialed and
// every method is a no-op — this is the common case in development and in
// tests.
func New(addr string, enabled bool) (*Client, error) {
	if !enabled {
		return &Client{enabled: false}, nil
	}

	sink, err := statsd.New(addr)
	if err != nil {
		return nil, err
	}

	return &Client{enabled: true, sink: sink}, nil
}

// Noop returns a Client that never emits anything, for tests and any
// composition path that doesn't care about metrics.
func Noop() *Client {
	return &Client{enabled: false}
}

func (c *Client) Incr(name string, tags []string, rate float64) {
	if c == nil || !c.enabled {
		return
	}
	_ = c.sink.Incr(name, tags, rate)
}

func (c *Client) Timing(name string, value time.Duration, tags []string, rate float64) {
	if c == nil || !c.enabled {
		return
	}
	_ = c.sink.Timing(name, value, tags, rate)
}

func (c *Client) Close() error {
	if c == nil || !c.enabled || c.sink == nil {
		return nil
	}
	return c.sink.Close()
}
