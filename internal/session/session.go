// Package session holds the small pieces of mutable state the SDK needs to
// answer local queries (GetGameSessionID, GetTerminationTime) without a
// round trip to the gateway, guarded by an RWMutex.
package session

import (
	"sync"
	"time"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/gerrors"
)

// State is the process's local view of readiness, the active game session,
// and any pending termination deadline. A zero State is a process that has
// not yet called ProcessReady or received a CreateGameSession event.
type State struct {
	mu sync.RWMutex

	processReady    bool
	gameSessionID   string
	hasGameSession  bool
	terminationTime time.Time
	hasTermination  bool
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// SetProcessReady records whether the process has declared itself ready to
// host game sessions. The active game session id, if any, outlives
// readiness: it is replaced by a later CreateGameSession event, never
// cleared by ProcessReady or ProcessEnding.
func (s *State) SetProcessReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processReady = ready
}

// IsProcessReady reports whether the process has declared itself ready.
func (s *State) IsProcessReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processReady
}

// SetGameSessionID records the game session now bound to this process.
func (s *State) SetGameSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameSessionID = id
	s.hasGameSession = true
}

// GameSessionID returns the active game session id, or
// GameSessionIDNotSetError if no CreateGameSession event has been received.
func (s *State) GameSessionID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasGameSession {
		return "", &gerrors.GameSessionIDNotSetError{}
	}
	return s.gameSessionID, nil
}

// SetTerminationTime records the deadline delivered with a TerminateProcess
// event. ms is signed milliseconds since the Unix epoch.
func (s *State) SetTerminationTime(ms int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminationTime = time.UnixMilli(ms)
	s.hasTermination = true
}

// TerminationTime returns the termination deadline, or
// TerminationTimeNotSetError if no TerminateProcess event has arrived.
func (s *State) TerminationTime() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasTermination {
		return time.Time{}, &gerrors.TerminationTimeNotSetError{}
	}
	return s.terminationTime, nil
}
