// Package reconnect rebuilds the duplex connection in place when the
// gateway asks the process to move to a new endpoint, throttling how often
// that is allowed to happen. The token-bucket throttle follows
// internal/gateway/ratelimit.go's use of golang.org/x/time/rate.
package reconnect

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/driver"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/transport"
	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

const (
	// DefaultReconnectRate bounds sustained reconnect attempts to one every
	// two seconds, with a small burst allowance for the rare legitimate case
	// of back-to-back refreshes.
	DefaultReconnectRate  = rate.Limit(0.5)
	DefaultReconnectBurst = 2
)

// Controller owns the currently active Driver and replaces it when the
// gateway sends a RefreshConnection event.
type Controller struct {
	runCtx context.Context
	logger *slog.Logger
	limiter *rate.Limiter
	onSwap func(*driver.Driver)

	mu       sync.Mutex
	current  *driver.Driver
	identity transport.Identity
}

// New builds a Controller around the already-running initial driver.
// runCtx governs the lifetime of every driver the controller creates,
// including ones created by future reconnects; it should span the whole
// connected lifetime of the SDK, not a single request. onSwap is invoked,
// synchronously, immediately after a new driver is running and installed as
// current — callers use it to redirect their event dispatcher.
func New(runCtx context.Context, initial *driver.Driver, identity transport.Identity, onSwap func(*driver.Driver), logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		runCtx:   runCtx,
		logger:   logger,
		limiter:  rate.NewLimiter(DefaultReconnectRate, DefaultReconnectBurst),
		onSwap:   onSwap,
		current:  initial,
		identity: identity,
	}
}

// Current returns the driver in use right now.
func (c *Controller) Current() *driver.Driver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// HandleRefresh dials the endpoint and credential carried by ev and, on
// success, swaps it in as the current driver. ctx bounds only the dial
// attempt. A throttled or failed reconnect is logged and leaves the current
// driver (likely already closed by the gateway) in place; the process will
// observe LocalConnectionAlreadyClosed on its next request.
func (c *Controller) HandleRefresh(ctx context.Context, ev model.RefreshConnectionEvent) {
	if !c.limiter.Allow() {
		c.logger.Warn("gamelift: reconnect throttled, dropping RefreshConnection")
		return
	}

	c.mu.Lock()
	id := c.identity
	c.mu.Unlock()
	id.WebSocketURL = ev.RefreshConnectionEndpoint
	id.AuthToken = ev.AuthToken

	stream, err := transport.Dial(ctx, id)
	if err != nil {
		c.logger.Error("gamelift: reconnect dial failed", "error", err)
		return
	}

	newDriver := driver.New(stream, c.logger)
	go newDriver.Run(c.runCtx)

	c.mu.Lock()
	c.current = newDriver
	c.identity = id
	c.mu.Unlock()

	if c.onSwap != nil {
		c.onSwap(newDriver)
	}
}
