// Package transport opens and frames the duplex stream to the gateway. It
// knows nothing about requests, correlation, or events — it only moves
// bytes and signals close, mirroring internal/websocket/proxy.go's use of
// gorilla/websocket.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rjsadow/gamelift-server-sdk-go/internal/gerrors"
)

const (
	sdkVersionQueryKey  = "sdkVersion"
	sdkLanguageQueryKey = "sdkLanguage"
	processIDQueryKey   = "pID"
	authTokenQueryKey   = "Authorization"
	computeIDQueryKey   = "ComputeId"
	fleetIDQueryKey     = "FleetId"

	// SDKVersion is advertised to the gateway on every connection attempt.
	SDKVersion = "5.0.0"
	// SDKLanguage is advertised to the gateway on every connection attempt.
	SDKLanguage = "Go"

	handshakeTimeout = 10 * time.Second
)

// Identity carries the parameters needed to build the connection URI. It is
// a narrower view of the SDK's ServerParameters, kept here so this package
// does not need to import the root package.
type Identity struct {
	WebSocketURL string
	ProcessID    string
	HostID       string
	FleetID      string
	AuthToken    string
}

// CreateURI builds the gateway connection URI from identity parameters,
// ensuring the path ends with "/" before the query string is appended.
func CreateURI(id Identity) (string, error) {
	base := id.WebSocketURL
	if base == "" {
		return "", fmt.Errorf("transport: web socket url is empty")
	}
	if base[len(base)-1] != '/' {
		base += "/"
	}

	q := url.Values{}
	q.Set(processIDQueryKey, id.ProcessID)
	q.Set(sdkVersionQueryKey, SDKVersion)
	q.Set(sdkLanguageQueryKey, SDKLanguage)
	q.Set(authTokenQueryKey, id.AuthToken)
	q.Set(computeIDQueryKey, id.HostID)
	q.Set(fleetIDQueryKey, id.FleetID)

	return base + "?" + q.Encode(), nil
}

// Frame is one inbound message off the stream.
type Frame struct {
	Type int // one of the gorilla/websocket message type constants
	Data []byte
}

// Stream is the minimal surface the connection driver needs: send one
// outbound text frame, read inbound frames one at a time, and close. A
// single goroutine is expected to call ReadFrame; WriteText may be called
// concurrently with ReadFrame (gorilla/websocket allows one concurrent
// reader and one concurrent writer) but never concurrently with itself.
type Stream interface {
	WriteText(data []byte) error
	ReadFrame() (Frame, error)
	Close() error
}

// wsStream adapts a *websocket.Conn to Stream.
type wsStream struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

// Dial opens a new duplex stream to the gateway described by id.
func Dial(ctx context.Context, id Identity) (Stream, error) {
	uri, err := CreateURI(id)
	if err != nil {
		return nil, &LocalConnectionFailedError{Cause: err}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, &LocalConnectionFailedError{Cause: err}
	}

	return &wsStream{conn: conn}, nil
}

func (s *wsStream) WriteText(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsStream) ReadFrame() (Frame, error) {
	messageType, data, err := s.conn.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: messageType, Data: data}, nil
}

func (s *wsStream) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.conn.Close()
}

// LocalConnectionFailedError wraps a connect-time failure. It is an alias of
// the shared error type so driver and root-package callers can type-assert
// against one definition regardless of which layer raised it.
type LocalConnectionFailedError = gerrors.LocalConnectionFailedError

// IsCloseFrame reports whether a frame's message type is a close frame. The
// gorilla/websocket reader surfaces close frames as an error from
// ReadMessage (wrapping *websocket.CloseError) rather than as a Frame, so
// callers should check errors with IsCloseError instead; this helper exists
// for symmetry with the message-type check driver code performs.
func IsCloseFrame(messageType int) bool {
	return messageType == websocket.CloseMessage
}

// IsCloseError reports whether err represents a normal stream close.
func IsCloseError(err error) bool {
	if err == nil {
		return false
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) || err.Error() == "EOF"
}
