package gamelift

import "github.com/rjsadow/gamelift-server-sdk-go/model"

// Public aliases of the wire payload types, so callers never need to import
// the internal model package directly.
type (
	GameSession                   = model.GameSession
	GameProperty                  = model.GameProperty
	UpdateReason                  = model.UpdateReason
	Player                        = model.Player
	AttributeValue                = model.AttributeValue
	AttrType                      = model.AttrType
	PlayerSession                 = model.PlayerSession
	PlayerSessionStatus           = model.PlayerSessionStatus
	PlayerSessionCreationPolicy   = model.PlayerSessionCreationPolicy
	DescribePlayerSessionsRequest = model.DescribePlayerSessionsRequest
	DescribePlayerSessionsResult  = model.DescribePlayerSessionsResult
	StartMatchBackfillRequest     = model.StartMatchBackfillRequest
	StartMatchBackfillResult      = model.StartMatchBackfillResult
	StopMatchBackfillRequest      = model.StopMatchBackfillRequest
	GetComputeCertificateResult   = model.GetComputeCertificateResult
	GetFleetRoleCredentialsResult = model.GetFleetRoleCredentialsResult
)

// LogParameters lists the log files the hosting service should collect when
// the process ends, carried on ActivateServerProcess.
type LogParameters struct {
	LogPaths []string
}

// ProcessParameters is the capability set ProcessReady installs: the port
// the process listens on for game clients, its log paths, and the four
// callbacks the dispatcher invokes as gateway events arrive — a nil
// callback is a no-op.
type ProcessParameters struct {
	Port          uint16
	LogParameters LogParameters

	OnStartGameSession  func(GameSession)
	OnUpdateGameSession func(gameSession GameSession, reason UpdateReason, backfillTicketID string)
	OnProcessTerminate  func()
	OnHealthCheck       func() bool
}
