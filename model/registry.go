package model

// Action names the wire message types. The set is closed: every value the
// gateway may send or accept for the core protocol is listed here, per the
// normative registry table.
type Action string

const (
	ActionActivateServerProcess             Action = "ActivateServerProcess"
	ActionHeartbeatServerProcess             Action = "HeartbeatServerProcess"
	ActionActivateGameSession                Action = "ActivateGameSession"
	ActionUpdatePlayerSessionCreationPolicy  Action = "UpdatePlayerSessionCreationPolicy"
	ActionAcceptPlayerSession                Action = "AcceptPlayerSession"
	ActionRemovePlayerSession                Action = "RemovePlayerSession"
	ActionDescribePlayerSessions             Action = "DescribePlayerSessions"
	ActionStartMatchBackfill                 Action = "StartMatchBackfill"
	ActionStopMatchBackfill                  Action = "StopMatchBackfill"
	ActionTerminateServerProcess             Action = "TerminateServerProcess"
	ActionGetComputeCertificate              Action = "GetComputeCertificate"
	ActionGetFleetRoleCredentials            Action = "GetFleetRoleCredentials"

	// Server-initiated events. These never carry a RequestId.
	ActionCreateGameSession  Action = "CreateGameSession"
	ActionUpdateGameSession  Action = "UpdateGameSession"
	ActionTerminateProcess   Action = "TerminateProcess"
	ActionRefreshConnection  Action = "RefreshConnection"
)

// IsEvent reports whether action names a server-initiated event rather than
// a correlated request/response.
func IsEvent(action string) bool {
	switch Action(action) {
	case ActionCreateGameSession, ActionUpdateGameSession, ActionTerminateProcess, ActionRefreshConnection:
		return true
	default:
		return false
	}
}

// Request is implemented by every outbound request payload. ActionName
// names the row of the registry it belongs to; the Go compiler does not
// tie the request type to its declared response type (Go generics have no
// associated-type mechanism), so callers must pair each request with the
// response type documented in the registry table — the typed wrapper
// methods on Client do this pairing for you.
type Request interface {
	ActionName() Action
}

var _ = []Request{
	ActivateServerProcessRequest{},
	HeartbeatServerProcessRequest{},
	ActivateGameSessionRequest{},
	UpdatePlayerSessionCreationPolicyRequest{},
	AcceptPlayerSessionRequest{},
	RemovePlayerSessionRequest{},
	DescribePlayerSessionsRequest{},
	StartMatchBackfillRequest{},
	StopMatchBackfillRequest{},
	TerminateServerProcessRequest{},
	GetComputeCertificateRequest{},
	GetFleetRoleCredentialsRequest{},
}
