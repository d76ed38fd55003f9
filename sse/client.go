package sse

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/rxkit/logger"
)

// Client is one connected SSE consumer with a bounded frame queue.
type Client struct {
	id       string
	metadata map[string]string
	frames   chan Frame

	done      chan struct{}
	closeOnce sync.Once
	final     Frame
	dropped   atomic.Int64
}

// NewClient creates a client. Without WithClientID the ID is a random UUID.
func NewClient(opts ...Option) *Client {
	s := newSettings(opts)
	return newClient(s)
}

func newClient(s settings) *Client {
	id := s.clientID
	if id == "" {
		id = uuid.NewString()
	}
	return &Client{
		id:       id,
		metadata: maps.Clone(s.metadata),
		frames:   make(chan Frame, s.bufferSize),
		done:     make(chan struct{}),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// Metadata returns all client metadata.
func (c *Client) Metadata() map[string]string {
	return c.metadata
}

// Frames returns the queue of frames waiting to be written.
func (c *Client) Frames() <-chan Frame {
	return c.frames
}

// Done is closed when the client has been finished or closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Dropped returns how many frames were dropped because the queue was full.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Send queues f. It returns false if the client is finished or its queue
// is full, in which case f is dropped.
func (c *Client) Send(f Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.frames <- f:
		return true
	default:
		c.dropped.Add(1)
		logger.Get("sse").Warn("client queue full, dropping frame", logger.Fields(
			logger.FieldClientID, c.id,
			"dropped", c.dropped.Load(),
		))
		return false
	}
}

// SendWait queues f, waiting for room in the queue. It returns false
// without queueing if the client is finished or ctx is done first.
func (c *Client) SendWait(ctx context.Context, f Frame) bool {
	select {
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	default:
	}

	select {
	case c.frames <- f:
		return true
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Finish ends the client after the queued frames and f are written. Only
// the first call has an effect; a terminal frame is never dropped.
func (c *Client) Finish(f Frame) {
	c.closeOnce.Do(func() {
		c.final = f
		close(c.done)
	})
}

// Close ends the client after the queued frames, without a final frame.
func (c *Client) Close() {
	c.Finish(Frame{})
}

// finalFrame returns the frame passed to Finish. Valid once Done is closed.
func (c *Client) finalFrame() (Frame, bool) {
	return c.final, c.final.Event != "" || len(c.final.Data) > 0
}
