package sse

import (
	"time"

	"github.com/kbukum/rxkit/config"
)

// Option configures a connection.
type Option func(*settings)

type settings struct {
	keepAlive  time.Duration
	bufferSize int
	clientID   string
	metadata   map[string]string
}

func newSettings(opts []Option) settings {
	s := settings{
		keepAlive:  config.DefaultSSEKeepAlive,
		bufferSize: config.DefaultSSEBufferSize,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithConfig applies the keep-alive and buffer settings from cfg.
func WithConfig(cfg config.SSEConfig) Option {
	return func(s *settings) {
		if cfg.KeepAlive > 0 {
			s.keepAlive = cfg.KeepAlive
		}
		if cfg.BufferSize > 0 {
			s.bufferSize = cfg.BufferSize
		}
	}
}

// WithKeepAlive sets the interval between keep-alive comments. Keep it
// below proxy idle timeouts; zero disables keep-alives.
func WithKeepAlive(d time.Duration) Option {
	return func(s *settings) { s.keepAlive = d }
}

// WithBufferSize sets how many frames may wait for a slow client before
// new ones are dropped.
func WithBufferSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// WithClientID sets the client ID instead of a generated one.
func WithClientID(id string) Option {
	return func(s *settings) { s.clientID = id }
}

// WithMetadata adds a metadata key-value pair to the client.
func WithMetadata(key, value string) Option {
	return func(s *settings) {
		if s.metadata == nil {
			s.metadata = make(map[string]string)
		}
		s.metadata[key] = value
	}
}
