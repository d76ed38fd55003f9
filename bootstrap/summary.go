package bootstrap

import (
	"fmt"
	"io"
	"os"
	"time"
)

// StreamInfo describes a stream the application exposes.
type StreamInfo struct {
	Name   string
	Kind   string // e.g. "sse", "publish", "task"
	Target string
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary tracks and displays what the runtime started.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	streams         []StreamInfo
	routes          []RouteInfo
	out             io.Writer
}

// NewSummary creates a new summary tracker writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetOutput redirects DisplaySummary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackStream records a stream exposed by the application.
func (s *Summary) TrackStream(name, kind, target string) {
	s.streams = append(s.streams, StreamInfo{Name: name, Kind: kind, Target: target})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// DisplaySummary prints the runtime settings, streams and routes.
func (r *Runtime) DisplaySummary() {
	s := r.summary
	cfg := r.cfg
	w := s.out

	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	fmt.Fprintf(w, "⚙️  Runtime\n")
	fmt.Fprintf(w, "   ├── scheduler: queue capacity %d\n", cfg.Scheduler.QueueCapacity)
	fmt.Fprintf(w, "   ├── buffer: timespan %s, count %d\n", cfg.Buffer.Timespan, cfg.Buffer.Count)
	fmt.Fprintf(w, "   ├── sse: keep-alive %s, buffer %d\n", cfg.SSE.KeepAlive, cfg.SSE.BufferSize)
	if cfg.Observability.Enabled {
		fmt.Fprintf(w, "   └── %s observability: %s (sample rate %.2f)\n",
			statusIcon(true), cfg.Observability.Endpoint, cfg.Observability.SampleRate)
	} else {
		fmt.Fprintf(w, "   └── %s observability: disabled\n", statusIcon(false))
	}

	if len(s.streams) > 0 {
		fmt.Fprintf(w, "\n🌊 Streams (%d)\n", len(s.streams))
		for i, st := range s.streams {
			fmt.Fprintf(w, "   %s %s [%s] → %s\n", treePrefix(i, len(s.streams)), st.Name, st.Kind, st.Target)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, rt := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(s.routes)), rt.Method, rt.Path, rt.Handler)
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "⏸️"
}
