package sse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/rx"
)

// Event types written on the "event:" line. Value frames carry no event
// line, so browsers deliver them as "message".
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeError carries the error that ended a stream.
	EventTypeError = "error"

	// EventTypeComplete marks the successful end of a stream.
	EventTypeComplete = "complete"
)

// Frame is one SSE message.
type Frame struct {
	Event string
	Data  []byte
}

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// EncodeEvent converts a stream event to a frame.
func EncodeEvent[T any](e rx.Event[T]) (Frame, error) {
	switch e.Kind {
	case rx.KindNext:
		data, err := json.Marshal(e.Value)
		if err != nil {
			return Frame{}, errors.TransformFailed("sse encode", err)
		}
		return Frame{Data: data}, nil
	case rx.KindError:
		return ErrorFrame(e.Err), nil
	default:
		return Frame{Event: EventTypeComplete, Data: []byte("{}")}, nil
	}
}

// ErrorFrame converts err to an "error" frame holding its response body.
func ErrorFrame(err error) Frame {
	data, _ := json.Marshal(errors.FromError(err).ToResponse())
	return Frame{Event: EventTypeError, Data: data}
}

func connectedFrame(client *Client) Frame {
	data, _ := json.Marshal(ConnectedEvent{ClientID: client.ID(), Metadata: client.Metadata()})
	return Frame{Event: EventTypeConnected, Data: data}
}

// IsTerminal reports whether the frame ends a per-request stream.
func (f Frame) IsTerminal() bool {
	return f.Event == EventTypeError || f.Event == EventTypeComplete
}

// WriteTo writes the frame in SSE wire format.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	var n int
	var err error
	if f.Event != "" {
		n, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.Event, f.Data)
	} else {
		n, err = fmt.Fprintf(w, "data: %s\n\n", f.Data)
	}
	return int64(n), err
}
