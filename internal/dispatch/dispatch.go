// Package dispatch drains decoded gateway events and invokes the process's
// registered callbacks in order, and runs the periodic health-check tick.
// The select-loop-plus-slog idiom follows internal/gateway/gateway.go; the
// per-event drop-and-log versus invoke semantics mirror
// connection_state.rs's do_feedback dispatch.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/driver"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/session"
	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

// Callbacks holds the process's registered event handlers. A nil entry is a
// no-op; ProcessParameters in the root package populates this from the
// caller's supplied function values.
type Callbacks struct {
	OnStartGameSession  func(model.GameSession)
	OnUpdateGameSession func(gameSession model.GameSession, reason model.UpdateReason, backfillTicketID string)
	OnProcessTerminate  func()
	OnHealthCheck       func() bool
}

// Dispatcher drains one driver's Event channel for the lifetime of a
// connection. A reconnect replaces the channel it reads from; it does not
// replace the Dispatcher itself, so callback ordering and the session state
// it mutates survive a reconnect.
type Dispatcher struct {
	state     *session.State
	callbacks Callbacks
	onRefresh func(model.RefreshConnectionEvent)
	logger    *slog.Logger
}

// New builds a Dispatcher. onRefresh is invoked for RefreshConnection
// events; it is owned by the reconnect controller rather than surfaced to
// user callbacks, since the protocol treats it as internal plumbing.
func New(state *session.State, callbacks Callbacks, onRefresh func(model.RefreshConnectionEvent), logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{state: state, callbacks: callbacks, onRefresh: onRefresh, logger: logger}
}

// Run drains events until the channel closes or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, events <-chan driver.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ev)
		}
	}
}

func (d *Dispatcher) handle(ev driver.Event) {
	switch ev.Kind {
	case driver.EventCreateGameSession:
		gs := ev.CreateGameSession.GameSession
		d.state.SetGameSessionID(gs.GameSessionID)
		if !d.state.IsProcessReady() {
			d.logger.Warn("gamelift: dropping CreateGameSession, process not ready", "game_session_id", gs.GameSessionID)
			return
		}
		if d.callbacks.OnStartGameSession != nil {
			d.callbacks.OnStartGameSession(gs)
		}

	case driver.EventUpdateGameSession:
		if !d.state.IsProcessReady() {
			d.logger.Warn("gamelift: dropping UpdateGameSession, process not ready")
			return
		}
		if d.callbacks.OnUpdateGameSession != nil {
			u := ev.UpdateGameSession
			d.callbacks.OnUpdateGameSession(u.GameSession, u.UpdateReason, u.BackfillTicketID)
		}

	case driver.EventTerminateProcess:
		d.state.SetTerminationTime(ev.TerminateProcess.TerminationTimeMillis)
		if d.callbacks.OnProcessTerminate != nil {
			d.callbacks.OnProcessTerminate()
		}

	case driver.EventRefreshConnection:
		if d.onRefresh != nil {
			d.onRefresh(ev.RefreshConnection)
		}

	default:
		d.logger.Warn("gamelift: dispatcher received unknown event kind", "kind", ev.Kind)
	}
}
