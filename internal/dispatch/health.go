package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

// DefaultHealthCheckInterval is 60s minus a 10s safety margin for the
// request itself.
const DefaultHealthCheckInterval = 50 * time.Second

// requestSender is satisfied by *driver.Driver; declared narrowly here so
// tests can supply a fake without constructing a real stream.
type requestSender interface {
	Send(ctx context.Context, action model.Action, payload model.Request) (json.RawMessage, error)
}

// HealthLoop periodically asks the process whether it's healthy and relays
// the answer to the gateway via HeartbeatServerProcess.
type HealthLoop struct {
	sender   requestSender
	onHealth func() bool
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthLoop builds a HealthLoop. interval <= 0 selects
// DefaultHealthCheckInterval.
func NewHealthLoop(sender requestSender, onHealth func() bool, interval time.Duration, logger *slog.Logger) *HealthLoop {
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthLoop{sender: sender, onHealth: onHealth, interval: interval, logger: logger}
}

// Run ticks until ctx is cancelled.
func (h *HealthLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *HealthLoop) tick(ctx context.Context) {
	healthy := h.checkHealth()

	reqCtx, cancel := context.WithTimeout(ctx, DefaultHealthCheckInterval)
	defer cancel()

	if _, err := h.sender.Send(reqCtx, model.ActionHeartbeatServerProcess, model.HeartbeatServerProcessRequest{HealthStatus: healthy}); err != nil {
		h.logger.Warn("gamelift: heartbeat failed", "error", err)
	}
}

// checkHealth runs the process's health callback with a DefaultHealthCheckInterval
// bound, reporting unhealthy if the callback doesn't return in time. The
// callback goroutine is left to finish on its own; Go gives no way to
// cancel an arbitrary blocking function, so a callback that never returns
// leaks one goroutine per missed tick rather than blocking the health loop.
func (h *HealthLoop) checkHealth() bool {
	if h.onHealth == nil {
		return true
	}

	result := make(chan bool, 1)
	go func() { result <- h.onHealth() }()

	select {
	case healthy := <-result:
		return healthy
	case <-time.After(DefaultHealthCheckInterval):
		h.logger.Warn("gamelift: health check callback timed out")
		return false
	}
}
