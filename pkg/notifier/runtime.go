// runtime.go captures process state attached to fatal events.

package notifier

import (
	"os"
	"runtime"
	"time"
)

// ExtraRuntime is the extra key holding RuntimeState on fatal events when
// Options.AttachRuntime is set.
const ExtraRuntime = "runtime"

var processStart = time.Now()

// RuntimeState is a snapshot of process metrics.
type RuntimeState struct {
	MemoryBytes    int64  `json:"memoryBytes"`
	GoroutineCount int    `json:"goroutines"`
	UptimeMs       int64  `json:"uptimeMs"`
	HostName       string `json:"hostName,omitempty"`
}

// CaptureRuntimeState reads process metrics now. Uptime is measured from
// startTime and clamped at zero.
func CaptureRuntimeState(startTime time.Time) RuntimeState {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hostname, _ := os.Hostname() // empty hostname is acceptable

	uptimeMs := time.Since(startTime).Milliseconds()
	if uptimeMs < 0 {
		uptimeMs = 0
	}

	return RuntimeState{
		MemoryBytes:    int64(memStats.Alloc),
		GoroutineCount: runtime.NumGoroutine(),
		UptimeMs:       uptimeMs,
		HostName:       hostname,
	}
}
