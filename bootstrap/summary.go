package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/typeioc/di"
)

// TelemetryInfo describes one enabled OTLP export.
type TelemetryInfo struct {
	Signal   string
	Endpoint string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	telemetry       []TelemetryInfo
	debugAddr       string
	debugPrefix     string
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackTelemetry records an enabled export.
func (s *Summary) TrackTelemetry(signal, endpoint string) {
	s.telemetry = append(s.telemetry, TelemetryInfo{Signal: signal, Endpoint: endpoint})
}

// TrackDebugServer records the debug server address.
func (s *Summary) TrackDebugServer(addr, prefix string) {
	s.debugAddr, s.debugPrefix = addr, prefix
}

// DisplaySummary writes the summary and the given bindings to w.
func (s *Summary) DisplaySummary(w io.Writer, bindings []di.RegistrationInfo) {
	fmt.Fprintf(w, "\n🚀 %s (%s) started in %s\n\n", s.serviceName, s.version, s.startupDuration.Round(time.Millisecond))

	if len(s.telemetry) > 0 || s.debugAddr != "" {
		fmt.Fprintf(w, "📊 Infrastructure\n")
		for _, t := range s.telemetry {
			fmt.Fprintf(w, "   ├── %s → %s\n", t.Signal, t.Endpoint)
		}
		if s.debugAddr != "" {
			fmt.Fprintf(w, "   ├── debug → http://%s%s\n", s.debugAddr, s.debugPrefix)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "📦 Bindings (%d)\n", len(bindings))
	if len(bindings) == 0 {
		fmt.Fprintf(w, "   └── No bindings registered\n")
	}
	for i, b := range bindings {
		prefix := "├──"
		if i == len(bindings)-1 {
			prefix = "└──"
		}
		line := b.Type
		if b.Target != b.Type {
			line += " → " + b.Target
		}
		scope := b.Scope
		if scope == "" {
			scope = "unresolved"
		}
		fmt.Fprintf(w, "   %s %s [%s]\n", prefix, line, scope)
	}
	fmt.Fprintf(w, "\n")
}
