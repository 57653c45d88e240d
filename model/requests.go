package model

// PlayerSessionCreationPolicy controls whether a game session accepts new
// player session reservations.
type PlayerSessionCreationPolicy string

const (
	PlayerSessionCreationPolicyNotSet    PlayerSessionCreationPolicy = "NotSet"
	PlayerSessionCreationPolicyAcceptAll PlayerSessionCreationPolicy = "AcceptAll"
	PlayerSessionCreationPolicyDenyAll   PlayerSessionCreationPolicy = "DenyAll"
)

// ActivateServerProcessRequest announces the process's SDK identity, the
// port it listens on for player connections, and its session log paths.
type ActivateServerProcessRequest struct {
	SDKVersion  string   `json:"SdkVersion"`
	SDKLanguage string   `json:"SdkLanguage"`
	Port        uint16   `json:"Port"`
	LogPaths    []string `json:"LogPaths"`
}

func (ActivateServerProcessRequest) ActionName() Action { return ActionActivateServerProcess }

// HeartbeatServerProcessRequest reports process health on the periodic
// health-check tick.
type HeartbeatServerProcessRequest struct {
	HealthStatus bool `json:"HealthStatus"`
}

func (HeartbeatServerProcessRequest) ActionName() Action { return ActionHeartbeatServerProcess }

// ActivateGameSessionRequest activates the game session currently bound to
// this process.
type ActivateGameSessionRequest struct {
	GameSessionID string `json:"GameSessionId"`
}

func (ActivateGameSessionRequest) ActionName() Action { return ActionActivateGameSession }

// UpdatePlayerSessionCreationPolicyRequest changes whether the active game
// session accepts new player session reservations.
type UpdatePlayerSessionCreationPolicyRequest struct {
	GameSessionID         string                      `json:"GameSessionId"`
	PlayerSessionPolicy PlayerSessionCreationPolicy `json:"PlayerSessionPolicy"`
}

func (UpdatePlayerSessionCreationPolicyRequest) ActionName() Action {
	return ActionUpdatePlayerSessionCreationPolicy
}

// AcceptPlayerSessionRequest validates a reserved player session so the
// player may connect.
type AcceptPlayerSessionRequest struct {
	GameSessionID   string `json:"GameSessionId"`
	PlayerSessionID string `json:"PlayerSessionId"`
}

func (AcceptPlayerSessionRequest) ActionName() Action { return ActionAcceptPlayerSession }

// RemovePlayerSessionRequest removes a player session, freeing its slot.
type RemovePlayerSessionRequest struct {
	GameSessionID   string `json:"GameSessionId"`
	PlayerSessionID string `json:"PlayerSessionId"`
}

func (RemovePlayerSessionRequest) ActionName() Action { return ActionRemovePlayerSession }

// DescribePlayerSessionsRequest selects which player session(s) to
// retrieve, optionally paginated. Only one of GameSessionID, PlayerID, or
// PlayerSessionID is typically set.
type DescribePlayerSessionsRequest struct {
	GameSessionID              string `json:"GameSessionId,omitempty"`
	PlayerID                   string `json:"PlayerId,omitempty"`
	PlayerSessionID            string `json:"PlayerSessionId,omitempty"`
	PlayerSessionStatusFilter  string `json:"PlayerSessionStatusFilter,omitempty"`
	NextToken                  string `json:"NextToken,omitempty"`
	Limit                      int32  `json:"Limit,omitempty"`
}

func (DescribePlayerSessionsRequest) ActionName() Action { return ActionDescribePlayerSessions }

// AttrType is the discriminant of AttributeValue's tagged union, mirroring
// the matchmaker player-attribute shape.
type AttrType int

const (
	AttrTypeString AttrType = iota + 1
	AttrTypeDouble
	AttrTypeStringList
	AttrTypeStringDoubleMap
)

// AttributeValue is a single matchmaker player attribute value.
type AttributeValue struct {
	Type            AttrType           `json:"Type"`
	S               string             `json:"S,omitempty"`
	N               float64            `json:"N,omitempty"`
	SL              []string           `json:"SL,omitempty"`
	SDM             map[string]float64 `json:"SDM,omitempty"`
}

// Player describes one participant included in a match backfill request.
type Player struct {
	PlayerID         string                    `json:"PlayerId"`
	Team             string                    `json:"Team,omitempty"`
	LatencyInMs      map[string]int32          `json:"LatencyInMs,omitempty"`
	PlayerAttributes map[string]AttributeValue `json:"PlayerAttributes,omitempty"`
}

// StartMatchBackfillRequest asks the matchmaker to find additional players
// for an in-progress game session.
type StartMatchBackfillRequest struct {
	TicketID                     string   `json:"TicketId"`
	GameSessionArn                string   `json:"GameSessionArn"`
	MatchmakingConfigurationArn string   `json:"MatchmakingConfigurationArn"`
	Players                      []Player `json:"Players"`
}

func (StartMatchBackfillRequest) ActionName() Action { return ActionStartMatchBackfill }

// StopMatchBackfillRequest cancels an in-flight match backfill ticket.
type StopMatchBackfillRequest struct {
	TicketID                     string `json:"TicketId"`
	GameSessionArn                string `json:"GameSessionArn"`
	MatchmakingConfigurationArn string `json:"MatchmakingConfigurationArn"`
}

func (StopMatchBackfillRequest) ActionName() Action { return ActionStopMatchBackfill }

// TerminateServerProcessRequest announces that the process is shutting
// down. The gateway acknowledges this with a close frame rather than a
// normal success response (see the driver's close-as-success handling).
type TerminateServerProcessRequest struct{}

func (TerminateServerProcessRequest) ActionName() Action { return ActionTerminateServerProcess }

// GetComputeCertificateRequest asks for the path to this compute's TLS
// certificate, used for player-to-server TLS.
type GetComputeCertificateRequest struct{}

func (GetComputeCertificateRequest) ActionName() Action { return ActionGetComputeCertificate }

// GetFleetRoleCredentialsRequest asks the gateway to vend temporary
// credentials for the fleet's instance role. If RoleSessionName is empty,
// the SDK synthesizes one (see the credentials package).
type GetFleetRoleCredentialsRequest struct {
	RoleArn         string `json:"RoleArn"`
	RoleSessionName string `json:"RoleSessionName"`
}

func (GetFleetRoleCredentialsRequest) ActionName() Action { return ActionGetFleetRoleCredentials }
