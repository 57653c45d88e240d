package gamelift

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/credentials"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/dispatch"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/driver"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/reconnect"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/session"
	"github.com/rjsadow/gamelift-server-sdk-go/internal/transport"
	"github.com/rjsadow/gamelift-server-sdk-go/model"
)

// Client is the connected handle returned by InitSDK. It owns the
// duplex connection for the life of the process: the current driver
// swaps underneath it on a RefreshConnection event, but the Client value
// itself, and everything reachable from it, stays valid.
type Client struct {
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	ctrl   *reconnect.Controller
	state  *session.State
	disp   *dispatch.Dispatcher
	creds  *credentials.Cache
	health *dispatch.HealthLoop

	mu          sync.Mutex
	dispCancel  context.CancelFunc
	readyCalled bool
}

// currentSender routes every call through whichever driver the reconnect
// controller currently considers live, so long-lived collaborators
// (the credential cache, the health loop) never hold a stale driver.
type currentSender struct {
	ctrl *reconnect.Controller
}

func (s currentSender) Send(ctx context.Context, action model.Action, payload model.Request) (json.RawMessage, error) {
	return s.ctrl.Current().Send(ctx, action, payload)
}

// InitSDK opens the duplex connection described by params (after applying
// GAMELIFT_SDK_* environment overrides) and returns a Client ready for
// ProcessReady. The returned Client owns a background goroutine per driver
// generation; call Destroy to release them.
func InitSDK(params ServerParameters) (*Client, error) {
	params = applyEnvOverrides(params)
	if errs := params.validate(); len(errs) > 0 {
		return nil, errs
	}

	logger := slog.Default()
	id := transport.Identity{
		WebSocketURL: params.WebSocketURL,
		ProcessID:    params.ProcessID,
		HostID:       params.HostID,
		FleetID:      params.FleetID,
		AuthToken:    params.AuthToken,
	}

	ctx, cancel := context.WithCancel(context.Background())

	stream, err := transport.Dial(ctx, id)
	if err != nil {
		cancel()
		return nil, err
	}

	d := driver.New(stream, logger)
	go d.Run(ctx)

	state := session.New()

	c := &Client{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  state,
	}
	c.ctrl = reconnect.New(ctx, d, id, c.onReconnect, logger)
	c.creds = credentials.New(currentSender{ctrl: c.ctrl}, params.FleetID, params.HostID)

	c.disp = dispatch.New(state, dispatch.Callbacks{}, c.handleRefresh, logger)
	c.startDispatcher(d)

	return c, nil
}

// onReconnect is invoked by the reconnect controller, synchronously, right
// after a replacement driver is installed as current. It restarts the
// dispatcher against the new driver's event channel; the health loop needs
// no such restart because it always asks the controller for the current
// driver on every tick.
func (c *Client) onReconnect(newDriver *driver.Driver) {
	c.startDispatcher(newDriver)
}

// handleRefresh adapts reconnect.Controller.HandleRefresh's
// context-taking signature to the context-free shape dispatch.New expects
// for its RefreshConnection hook, binding it to the Client's own lifetime
// context rather than a per-event one.
func (c *Client) handleRefresh(ev model.RefreshConnectionEvent) {
	c.ctrl.HandleRefresh(c.ctx, ev)
}

func (c *Client) startDispatcher(d *driver.Driver) {
	c.mu.Lock()
	if c.dispCancel != nil {
		c.dispCancel()
	}
	dispCtx, dispCancel := context.WithCancel(c.ctx)
	c.dispCancel = dispCancel
	c.mu.Unlock()

	go c.disp.Run(dispCtx, d.Events())
}

// ProcessReady announces to the gateway that the process is ready to host
// game sessions and installs the process's callbacks. It may be called at
// most once per Client.
func (c *Client) ProcessReady(params ProcessParameters) error {
	c.mu.Lock()
	if c.readyCalled {
		c.mu.Unlock()
		return fmt.Errorf("gamelift: ProcessReady already called")
	}
	c.readyCalled = true
	c.mu.Unlock()

	c.disp = dispatch.New(c.state, dispatch.Callbacks{
		OnStartGameSession:  params.OnStartGameSession,
		OnUpdateGameSession: params.OnUpdateGameSession,
		OnProcessTerminate:  params.OnProcessTerminate,
		OnHealthCheck:       params.OnHealthCheck,
	}, c.handleRefresh, c.logger)
	c.startDispatcher(c.ctrl.Current())

	c.health = dispatch.NewHealthLoop(currentSender{ctrl: c.ctrl}, params.OnHealthCheck, dispatch.DefaultHealthCheckInterval, c.logger)
	go c.health.Run(c.ctx)

	c.state.SetProcessReady(true)

	_, err := c.ctrl.Current().Send(c.ctx, model.ActionActivateServerProcess, model.ActivateServerProcessRequest{
		SDKVersion:  transport.SDKVersion,
		SDKLanguage: transport.SDKLanguage,
		Port:        params.Port,
		LogPaths:    params.LogParameters.LogPaths,
	})
	if err != nil {
		c.state.SetProcessReady(false)
		return err
	}
	return nil
}

// ProcessEnding tells the gateway the process is shutting down, then
// releases the Client's background goroutines. The gateway acknowledges
// termination with a close frame rather than a normal response, which the
// driver treats as success for this one request.
func (c *Client) ProcessEnding() error {
	c.state.SetProcessReady(false)
	_, err := c.ctrl.Current().SendTerminate(c.ctx, model.ActionTerminateServerProcess, model.TerminateServerProcessRequest{})
	c.Destroy()
	return err
}

// Destroy cancels every goroutine the Client started. It is safe to call
// more than once.
func (c *Client) Destroy() {
	c.cancel()
}

// ActivateGameSession activates the game session most recently delivered by
// a CreateGameSession event.
func (c *Client) ActivateGameSession() error {
	id, err := c.state.GameSessionID()
	if err != nil {
		return err
	}
	_, err = c.ctrl.Current().Send(c.ctx, model.ActionActivateGameSession, model.ActivateGameSessionRequest{GameSessionID: id})
	return err
}

// UpdatePlayerSessionCreationPolicy changes whether the active game session
// accepts new player session reservations.
func (c *Client) UpdatePlayerSessionCreationPolicy(policy PlayerSessionCreationPolicy) error {
	id, err := c.state.GameSessionID()
	if err != nil {
		return err
	}
	_, err = c.ctrl.Current().Send(c.ctx, model.ActionUpdatePlayerSessionCreationPolicy, model.UpdatePlayerSessionCreationPolicyRequest{
		GameSessionID:       id,
		PlayerSessionPolicy: policy,
	})
	return err
}

// AcceptPlayerSession validates a reserved player session so the player may
// connect.
func (c *Client) AcceptPlayerSession(playerSessionID string) error {
	id, err := c.state.GameSessionID()
	if err != nil {
		return err
	}
	_, err = c.ctrl.Current().Send(c.ctx, model.ActionAcceptPlayerSession, model.AcceptPlayerSessionRequest{
		GameSessionID:   id,
		PlayerSessionID: playerSessionID,
	})
	return err
}

// RemovePlayerSession removes a player session, freeing its slot.
func (c *Client) RemovePlayerSession(playerSessionID string) error {
	id, err := c.state.GameSessionID()
	if err != nil {
		return err
	}
	_, err = c.ctrl.Current().Send(c.ctx, model.ActionRemovePlayerSession, model.RemovePlayerSessionRequest{
		GameSessionID:   id,
		PlayerSessionID: playerSessionID,
	})
	return err
}

// DescribePlayerSessions retrieves player session(s) matching req. It has
// no game-session-id precondition: req selects its own scope.
func (c *Client) DescribePlayerSessions(req DescribePlayerSessionsRequest) (DescribePlayerSessionsResult, error) {
	raw, err := c.ctrl.Current().Send(c.ctx, model.ActionDescribePlayerSessions, req)
	if err != nil {
		return DescribePlayerSessionsResult{}, err
	}
	var result DescribePlayerSessionsResult
	if err := model.DecodePayload(raw, &result); err != nil {
		return DescribePlayerSessionsResult{}, &InvalidJSONError{Cause: err}
	}
	return result, nil
}

// StartMatchBackfill asks the matchmaker to find additional players for the
// active game session.
func (c *Client) StartMatchBackfill(req StartMatchBackfillRequest) (StartMatchBackfillResult, error) {
	raw, err := c.ctrl.Current().Send(c.ctx, model.ActionStartMatchBackfill, req)
	if err != nil {
		return StartMatchBackfillResult{}, err
	}
	var result StartMatchBackfillResult
	if err := model.DecodePayload(raw, &result); err != nil {
		return StartMatchBackfillResult{}, &InvalidJSONError{Cause: err}
	}
	return result, nil
}

// StopMatchBackfill cancels an in-flight match backfill ticket.
func (c *Client) StopMatchBackfill(req StopMatchBackfillRequest) error {
	_, err := c.ctrl.Current().Send(c.ctx, model.ActionStopMatchBackfill, req)
	return err
}

// GetGameSessionID returns the active game session id, or
// GameSessionIDNotSetError if no CreateGameSession event has been received.
func (c *Client) GetGameSessionID() (string, error) {
	return c.state.GameSessionID()
}

// GetTerminationTime returns the deadline delivered with the most recent
// TerminateProcess event, or TerminationTimeNotSetError if none arrived.
func (c *Client) GetTerminationTime() (time.Time, error) {
	return c.state.TerminationTime()
}

// GetComputeCertificate returns the path to this compute's TLS certificate.
func (c *Client) GetComputeCertificate() (GetComputeCertificateResult, error) {
	raw, err := c.ctrl.Current().Send(c.ctx, model.ActionGetComputeCertificate, model.GetComputeCertificateRequest{})
	if err != nil {
		return GetComputeCertificateResult{}, err
	}
	var result GetComputeCertificateResult
	if err := model.DecodePayload(raw, &result); err != nil {
		return GetComputeCertificateResult{}, &InvalidJSONError{Cause: err}
	}
	return result, nil
}

// GetFleetRoleCredentials returns cached (or freshly fetched) temporary
// credentials for the fleet's instance role. An empty roleSessionName is
// synthesized from the fleet and host ids.
func (c *Client) GetFleetRoleCredentials(roleArn, roleSessionName string) (GetFleetRoleCredentialsResult, error) {
	return c.creds.Get(c.ctx, roleArn, roleSessionName)
}
