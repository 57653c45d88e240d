// Package gamelift is a server SDK for hosting game sessions behind a
// GameLift-compatible duplex WebSocket gateway. A process calls InitSDK
// once to open the connection, ProcessReady once it can accept game
// sessions, and the Get/Accept/Remove/Describe/MatchBackfill methods as
// game sessions come and go. ProcessEnding tears the connection down.
//
// The underlying connection reconnects in place when the gateway asks the
// process to move to a new endpoint; callers never see the swap except as
// continued request/response and callback delivery on the same Client
// value.
package gamelift
