package sse

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
)

// Stream subscribes to src for the lifetime of the request and writes its
// events to w. The subscription runs on its own goroutine once the
// connected frame is out, and each event waits for room in the client
// queue, so a fast source is slowed to the writer's pace instead of losing
// frames. Stream returns after the terminal frame is written or the
// client disconnects; either way the subscription is disposed first.
func Stream[T any](w http.ResponseWriter, r *http.Request, src rx.Observable[T], opts ...Option) {
	s := newSettings(opts)
	client := newClient(s)

	flusher, ok := prepare(w, client.ID())
	if !ok {
		return
	}

	ctx, span := observability.StartSpan(r.Context(), observability.SpanSSEStream,
		trace.WithAttributes(attribute.String(observability.AttrClientID, client.ID())),
	)
	defer span.End()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	subscribed := make(chan disposable.Disposable, 1)
	started := false
	start := func() {
		started = true
		go func() {
			subscribed <- rx.SubscribeFunc(ctx, src, func(e rx.Event[T]) {
				f, err := EncodeEvent(e)
				if err != nil {
					observability.SetSpanError(ctx, err)
					client.Finish(ErrorFrame(err))
					return
				}
				if e.Kind == rx.KindError {
					observability.SetSpanError(ctx, e.Err)
				}
				if f.IsTerminal() {
					client.Finish(f)
					return
				}
				client.SendWait(ctx, f)
			})
		}()
	}

	serve(ctx, w, flusher, client, s.keepAlive, start)
	cancel()
	if started {
		(<-subscribed).Dispose()
	}
}

// ServeSSE registers a client with hub and writes the frames broadcast to
// it until the client disconnects or the hub stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, opts ...Option) {
	s := newSettings(opts)
	client := newClient(s)

	flusher, ok := prepare(w, client.ID())
	if !ok {
		return
	}

	ctx, span := observability.StartSpan(r.Context(), observability.SpanSSEStream,
		trace.WithAttributes(attribute.String(observability.AttrClientID, client.ID())),
	)
	defer span.End()

	hub.Register(client)
	defer hub.Unregister(client)

	serve(ctx, w, flusher, client, s.keepAlive, nil)
	observability.SetSpanAttribute(ctx, observability.AttrDropped, client.Dropped())
}

// prepare checks streaming support and writes the SSE headers.
func prepare(w http.ResponseWriter, clientID string) (http.Flusher, bool) {
	log := logger.Get("sse")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported", logger.Fields(logger.FieldClientID, clientID))
		appErr := errors.Internal(nil).WithDetail("reason", "streaming not supported")
		http.Error(w, appErr.Message, appErr.HTTPStatus)
		return nil, false
	}

	// SSE connections are long-lived and must outlive the server's
	// WriteTimeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not disable write deadline", logger.Fields(
			logger.FieldClientID, clientID,
			logger.FieldError, err.Error(),
		))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	return flusher, true
}

// serve is the write loop shared by Stream and ServeSSE. onConnected,
// when set, runs once the connected frame has been written.
func serve(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, client *Client, keepAlive time.Duration, onConnected func()) {
	log := logger.Get("sse").WithContext(ctx).WithFields(logger.Fields(logger.FieldClientID, client.ID()))

	write := func(f Frame) bool {
		if _, err := f.WriteTo(w); err != nil {
			log.Debug("write failed", logger.Fields(logger.FieldError, err.Error()))
			return false
		}
		flusher.Flush()
		return true
	}

	if !write(connectedFrame(client)) {
		return
	}
	log.Debug("client connected")
	if onConnected != nil {
		onConnected()
	}

	var tick <-chan time.Time
	if keepAlive > 0 {
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected", logger.Fields("reason", ctx.Err().Error()))
			return

		case f := <-client.Frames():
			if !write(f) {
				return
			}

		case <-client.Done():
		drain:
			for {
				select {
				case f := <-client.Frames():
					if !write(f) {
						return
					}
				default:
					break drain
				}
			}
			if f, ok := client.finalFrame(); ok {
				write(f)
			}
			log.Debug("stream finished", logger.Fields("dropped", client.Dropped()))
			return

		case <-tick:
			// Lines starting with ':' are comments that keep proxies from
			// closing an idle connection.
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
