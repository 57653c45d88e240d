// Package gerrors defines the closed set of error kinds the SDK returns to
// callers. It has no dependencies on any other internal package so that both
// the transport/driver layers and the root package can return and compare
// the same error values without an import cycle.
package gerrors

import "fmt"

// ServiceCallFailedError wraps a transport error raised while writing a
// request to the open stream (as opposed to a failure to connect at all).
type ServiceCallFailedError struct {
	Cause error
}

func (e *ServiceCallFailedError) Error() string {
	return fmt.Sprintf("gamelift: service call failed: %v", e.Cause)
}

func (e *ServiceCallFailedError) Unwrap() error { return e.Cause }

// LocalConnectionFailedError wraps a failure to establish the duplex stream.
type LocalConnectionFailedError struct {
	Cause error
}

func (e *LocalConnectionFailedError) Error() string {
	return fmt.Sprintf("gamelift: local connection failed: %v", e.Cause)
}

func (e *LocalConnectionFailedError) Unwrap() error { return e.Cause }

// LocalConnectionAlreadyClosedError is returned for any request attempted
// after the driver has torn down its stream.
type LocalConnectionAlreadyClosedError struct{}

func (e *LocalConnectionAlreadyClosedError) Error() string {
	return "gamelift: local connection already closed"
}

// GameSessionIDNotSetError is returned by operations that require an active
// game session when no CreateGameSession event has been received.
type GameSessionIDNotSetError struct{}

func (e *GameSessionIDNotSetError) Error() string {
	return "gamelift: game session id not set"
}

// TerminationTimeNotSetError is returned by GetTerminationTime before a
// TerminateProcess event has been received.
type TerminationTimeNotSetError struct{}

func (e *TerminationTimeNotSetError) Error() string {
	return "gamelift: termination time not set"
}

// BadRequestError is returned when caller-supplied arguments fail local
// validation before ever reaching the gateway, and by the credential cache
// when the gateway's answer carries no access key id.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return "gamelift: bad request: " + e.Message
}

// InvalidJSONError wraps a local marshal/unmarshal failure.
type InvalidJSONError struct {
	Cause error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("gamelift: invalid json: %v", e.Cause)
}

func (e *InvalidJSONError) Unwrap() error { return e.Cause }

// RequestUnsuccessfulError is returned when the gateway's response header
// carries a non-200 status code.
type RequestUnsuccessfulError struct {
	StatusCode   int
	ErrorMessage string
}

func (e *RequestUnsuccessfulError) Error() string {
	return fmt.Sprintf("gamelift: request unsuccessful: status %d: %s", e.StatusCode, e.ErrorMessage)
}

// RequestTimeoutError is returned when no response arrives within the
// service call timeout.
type RequestTimeoutError struct{}

func (e *RequestTimeoutError) Error() string {
	return "gamelift: request timed out"
}

// RequestWasOverwrittenError is returned to a pending caller whose request
// id was reused before a response arrived; it should never happen in
// practice since request ids are random v4 UUIDs, but the driver must still
// resolve the orphaned pending entry rather than leak it.
type RequestWasOverwrittenError struct{}

func (e *RequestWasOverwrittenError) Error() string {
	return "gamelift: request was overwritten"
}

// Sentinel instances for errors.Is comparisons against values with no
// dynamic payload.
var (
	ErrLocalConnectionAlreadyClosed = &LocalConnectionAlreadyClosedError{}
	ErrGameSessionIDNotSet          = &GameSessionIDNotSetError{}
	ErrTerminationTimeNotSet        = &TerminationTimeNotSetError{}
	ErrRequestTimeout               = &RequestTimeoutError{}
	ErrRequestWasOverwritten        = &RequestWasOverwrittenError{}
)
