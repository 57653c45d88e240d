// Package driver owns the duplex stream once it is open: it multiplexes
// outbound requests over a single writer, correlates inbound responses back
// to their caller by request id, and routes inbound events to a bounded
// queue for the dispatcher to drain. It is the Go counterpart of
// connection_state.rs's ConnectionState::run/send_request/listen/reaction
// functions, built on the one-shot reply-channel idiom from
// internal/sessions/queue.go's queueEntry.
package driver

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/gerrors"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/transport"
	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

const (
	outboundQueueSize = 256

	// EventQueueCapacity bounds how many undelivered events the driver will
	// hold before dropping the newest one.
	EventQueueCapacity = 1024
)

// ServiceCallTimeout bounds how long Send waits for a response frame. It is
// a var rather than a const so tests can shrink it.
var ServiceCallTimeout = 20 * time.Second

// EventKind identifies which gateway-initiated event an Event carries.
type EventKind int

const (
	EventCreateGameSession EventKind = iota
	EventUpdateGameSession
	EventTerminateProcess
	EventRefreshConnection
)

// Event is a decoded gateway-initiated message. Exactly one of the payload
// fields is populated, selected by Kind.
type Event struct {
	Kind EventKind

	CreateGameSession model.CreateGameSessionEvent
	UpdateGameSession model.UpdateGameSessionEvent
	TerminateProcess  model.TerminateProcessEvent
	RefreshConnection model.RefreshConnectionEvent
}

type pendingReply struct {
	header model.ResponseHeader
	raw    json.RawMessage
	err    error
}

type outboundRequest struct {
	requestID   string
	raw         []byte
	reply       chan pendingReply
	isTerminate bool
}

// Driver owns one duplex stream for its lifetime. Create one per connection
// attempt; a reconnect builds a fresh Driver around a fresh transport.Stream.
type Driver struct {
	stream transport.Stream
	logger *slog.Logger

	outbound chan outboundRequest
	events   chan Event

	// pending and terminateRequestID are touched only from the Run goroutine.
	pending            map[string]chan pendingReply
	terminateRequestID string

	done      chan struct{}
	closeOnce sync.Once
}

// New builds a Driver around an already-dialed stream. Call Run to start
// servicing it.
func New(stream transport.Stream, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		stream:   stream,
		logger:   logger,
		outbound: make(chan outboundRequest, outboundQueueSize),
		events:   make(chan Event, EventQueueCapacity),
		pending:  make(map[string]chan pendingReply),
		done:     make(chan struct{}),
	}
}

// Events returns the channel events are delivered on. It is closed when Run
// returns.
func (d *Driver) Events() <-chan Event { return d.events }

// Done reports closure of the driver's stream.
func (d *Driver) Done() <-chan struct{} { return d.done }

// Send encodes and transmits a request, blocking until the matching response
// frame arrives, the service call timeout elapses, the caller's context is
// cancelled, or the driver shuts down.
func (d *Driver) Send(ctx context.Context, action model.Action, payload model.Request) (json.RawMessage, error) {
	return d.send(ctx, action, payload, false)
}

// SendTerminate behaves like Send, except that if the gateway answers by
// closing the stream instead of sending a response frame, the closure is
// surfaced as a successful reply rather than LocalConnectionAlreadyClosed.
// TerminateServerProcess is the only action the gateway is permitted to
// answer this way.
func (d *Driver) SendTerminate(ctx context.Context, action model.Action, payload model.Request) (json.RawMessage, error) {
	return d.send(ctx, action, payload, true)
}

func (d *Driver) send(ctx context.Context, action model.Action, payload model.Request, terminate bool) (json.RawMessage, error) {
	requestID := uuid.NewString()
	raw, err := model.EncodeRequest(string(action), requestID, payload)
	if err != nil {
		return nil, &gerrors.InvalidJSONError{Cause: err}
	}

	reply := make(chan pendingReply, 1)
	req := outboundRequest{requestID: requestID, raw: raw, reply: reply, isTerminate: terminate}

	select {
	case d.outbound <- req:
	case <-d.done:
		return nil, gerrors.ErrLocalConnectionAlreadyClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timer := time.NewTimer(ServiceCallTimeout)
	defer timer.Stop()

	select {
	case res := <-reply:
		if res.err != nil {
			return nil, res.err
		}
		if res.header.StatusCode != model.StatusOK {
			return nil, &gerrors.RequestUnsuccessfulError{StatusCode: res.header.StatusCode, ErrorMessage: res.header.ErrorMessage}
		}
		return res.raw, nil
	case <-timer.C:
		return nil, gerrors.ErrRequestTimeout
	case <-d.done:
		return nil, gerrors.ErrLocalConnectionAlreadyClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run services the stream until ctx is cancelled or the stream closes. It is
// meant to be run in its own goroutine; callers learn of termination via
// Done and drain any final events from Events before discarding the driver.
func (d *Driver) Run(ctx context.Context) {
	defer d.shutdown()

	inbound := make(chan transport.Frame)
	inboundErr := make(chan error, 1)
	go d.readLoop(inbound, inboundErr)

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-d.outbound:
			d.registerPending(req)
			if err := d.stream.WriteText(req.raw); err != nil {
				d.resolveRequest(req.requestID, pendingReply{err: &gerrors.ServiceCallFailedError{Cause: err}})
			}

		case frame := <-inbound:
			d.handleFrame(frame)

		case err := <-inboundErr:
			d.handleStreamClosed(err)
			return
		}
	}
}

func (d *Driver) readLoop(out chan<- transport.Frame, errs chan<- error) {
	for {
		frame, err := d.stream.ReadFrame()
		if err != nil {
			errs <- err
			return
		}
		out <- frame
	}
}

// registerPending installs req's reply channel under its request id. A
// collision with an existing pending entry should never happen with random
// v4 request ids, but if it does, the orphaned entry is resolved with
// RequestWasOverwritten rather than left to leak forever.
func (d *Driver) registerPending(req outboundRequest) {
	if old, exists := d.pending[req.requestID]; exists {
		d.deliver(old, pendingReply{err: gerrors.ErrRequestWasOverwritten})
	}
	d.pending[req.requestID] = req.reply
	if req.isTerminate {
		d.terminateRequestID = req.requestID
	}
}

func (d *Driver) handleFrame(frame transport.Frame) {
	if frame.Type != websocket.TextMessage {
		d.logger.Warn("gamelift: ignoring non-text frame", "type", frame.Type)
		return
	}

	hdr, err := model.DecodeResponseHeader(frame.Data)
	if err != nil {
		d.logger.Error("gamelift: failed to decode frame", "error", err)
		return
	}

	if model.IsEvent(hdr.Action) {
		d.dispatchEvent(hdr.Action, frame.Data)
		return
	}

	d.resolveRequest(hdr.RequestID, pendingReply{header: hdr, raw: frame.Data})
}

func (d *Driver) resolveRequest(requestID string, reply pendingReply) {
	ch, ok := d.pending[requestID]
	if !ok {
		d.logger.Warn("gamelift: response for unknown request id", "request_id", requestID)
		return
	}
	delete(d.pending, requestID)
	d.deliver(ch, reply)
}

func (d *Driver) deliver(ch chan pendingReply, reply pendingReply) {
	select {
	case ch <- reply:
	default:
	}
}

func (d *Driver) dispatchEvent(action string, raw []byte) {
	var ev Event

	switch model.Action(action) {
	case model.ActionCreateGameSession:
		var payload model.CreateGameSessionEvent
		if err := model.DecodePayload(raw, &payload); err != nil {
			d.logger.Error("gamelift: failed to decode CreateGameSession event", "error", err)
			return
		}
		ev = Event{Kind: EventCreateGameSession, CreateGameSession: payload}

	case model.ActionUpdateGameSession:
		var payload model.UpdateGameSessionEvent
		if err := model.DecodePayload(raw, &payload); err != nil {
			d.logger.Error("gamelift: failed to decode UpdateGameSession event", "error", err)
			return
		}
		ev = Event{Kind: EventUpdateGameSession, UpdateGameSession: payload}

	case model.ActionTerminateProcess:
		var payload model.TerminateProcessEvent
		if err := model.DecodePayload(raw, &payload); err != nil {
			d.logger.Error("gamelift: failed to decode TerminateProcess event", "error", err)
			return
		}
		ev = Event{Kind: EventTerminateProcess, TerminateProcess: payload}

	case model.ActionRefreshConnection:
		var payload model.RefreshConnectionEvent
		if err := model.DecodePayload(raw, &payload); err != nil {
			d.logger.Error("gamelift: failed to decode RefreshConnection event", "error", err)
			return
		}
		ev = Event{Kind: EventRefreshConnection, RefreshConnection: payload}

	default:
		d.logger.Warn("gamelift: unknown event action", "action", action)
		return
	}

	select {
	case d.events <- ev:
	default:
		d.logger.Warn("gamelift: event queue full, dropping event", "action", action)
	}
}

// handleStreamClosed reacts to the read loop observing the stream close.
// TerminateServerProcess may legitimately be answered this way, so that one
// pending request (if it is the one outstanding) is resolved as success
// before every other pending request is failed.
func (d *Driver) handleStreamClosed(err error) {
	if d.terminateRequestID != "" {
		if ch, ok := d.pending[d.terminateRequestID]; ok {
			delete(d.pending, d.terminateRequestID)
			d.deliver(ch, pendingReply{header: model.ResponseHeader{StatusCode: model.StatusOK}})
		}
	}

	if !transport.IsCloseError(err) {
		d.logger.Error("gamelift: stream closed unexpectedly", "error", err)
	}

	for id, ch := range d.pending {
		delete(d.pending, id)
		d.deliver(ch, pendingReply{err: gerrors.ErrLocalConnectionAlreadyClosed})
	}
}

func (d *Driver) shutdown() {
	d.closeOnce.Do(func() {
		close(d.done)
		_ = d.stream.Close()
		close(d.events)
	})
}
