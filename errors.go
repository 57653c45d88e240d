package gamelift

import "github.com/rjsadow/gamelift-server-sdk-go/internal/gerrors"

// Most SDK operations that can fail return one of the following error types.
// The exceptions are InitSDK's parameter validation (ValidationErrors), a
// repeated ProcessReady call (a plain error), and a call cut short by Destroy
// (the context's error). They are aliases of the internal types the
// transport and driver layers construct, so a single type switch or
// errors.As works regardless of which layer raised the error.
type (
	// ServiceCallFailedError wraps a transport error raised while writing a
	// request to the open stream.
	ServiceCallFailedError = gerrors.ServiceCallFailedError

	// LocalConnectionFailedError wraps a failure to establish the duplex
	// stream to the gateway.
	LocalConnectionFailedError = gerrors.LocalConnectionFailedError

	// LocalConnectionAlreadyClosedError is returned for any request
	// attempted after the connection has been torn down.
	LocalConnectionAlreadyClosedError = gerrors.LocalConnectionAlreadyClosedError

	// GameSessionIDNotSetError is returned by operations that require an
	// active game session when no CreateGameSession event has been received.
	GameSessionIDNotSetError = gerrors.GameSessionIDNotSetError

	// TerminationTimeNotSetError is returned by GetTerminationTime before a
	// termination notice has been received.
	TerminationTimeNotSetError = gerrors.TerminationTimeNotSetError

	// BadRequestError is returned when caller-supplied arguments fail local
	// validation before reaching the gateway, and by GetFleetRoleCredentials
	// when the gateway's answer carries no access key id.
	BadRequestError = gerrors.BadRequestError

	// InvalidJSONError wraps a local marshal/unmarshal failure.
	InvalidJSONError = gerrors.InvalidJSONError

	// RequestUnsuccessfulError is returned when the gateway's response
	// carries a non-success status code.
	RequestUnsuccessfulError = gerrors.RequestUnsuccessfulError

	// RequestTimeoutError is returned when no response arrives within the
	// service call timeout.
	RequestTimeoutError = gerrors.RequestTimeoutError

	// RequestWasOverwrittenError is returned to a caller whose request id
	// was reused before a response arrived.
	RequestWasOverwrittenError = gerrors.RequestWasOverwrittenError
)
