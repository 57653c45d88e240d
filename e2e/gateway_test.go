package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// fakeGateway is a minimal stand-in for the hosting service's duplex
// WebSocket endpoint: it upgrades one connection at a time and hands the
// test the raw *websocket.Conn so scenarios can script request/response
// and event traffic directly, the way echoServer does in
// internal/reconnect/reconnect_test.go.
type fakeGateway struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{conns: make(chan *websocket.Conn, 8)}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		g.conns <- conn
	}))
	return g
}

func (g *fakeGateway) url() string {
	return "ws" + strings.TrimPrefix(g.server.URL, "http") + "/"
}

func (g *fakeGateway) close() {
	g.server.Close()
}

// nextConn waits for the next client connection, up to timeout.
func (g *fakeGateway) nextConn(timeout time.Duration) *websocket.Conn {
	select {
	case c := <-g.conns:
		return c
	case <-time.After(timeout):
		return nil
	}
}

// inboundFrame is one decoded outbound request or event seen from the SDK.
type inboundFrame struct {
	Action    string          `json:"Action"`
	RequestID string          `json:"RequestId"`
	Raw       json.RawMessage `json:"-"`
}

func readFrame(conn *websocket.Conn) (inboundFrame, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return inboundFrame{}, err
	}
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return inboundFrame{}, err
	}
	f.Raw = data
	return f, nil
}

// respondOK writes a success response frame for requestID, flattening
// payload's fields alongside the envelope header.
func respondOK(conn *websocket.Conn, action, requestID string, payload any) error {
	return respond(conn, action, requestID, 200, "", payload)
}

func respondError(conn *websocket.Conn, action, requestID string, statusCode int, message string) error {
	return respond(conn, action, requestID, statusCode, message, struct{}{})
}

func respond(conn *websocket.Conn, action, requestID string, statusCode int, message string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payloadJSON, &fields); err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["Action"], _ = json.Marshal(action)
	fields["RequestId"], _ = json.Marshal(requestID)
	fields["StatusCode"], _ = json.Marshal(statusCode)
	fields["ErrorMessage"], _ = json.Marshal(message)

	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, body)
}

// sendEvent writes a server-initiated event frame, which carries no
// RequestId.
func sendEvent(conn *websocket.Conn, action string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payloadJSON, &fields); err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["Action"], _ = json.Marshal(action)

	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, body)
}
