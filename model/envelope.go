// Package model defines the wire envelope, the closed action registry, and
// the request/response/event payload shapes exchanged with the gateway.
package model

import (
	"encoding/json"
	"fmt"
)

// ResponseHeader is the fixed portion of every inbound frame. Payload fields
// declared by the action's response type are flattened into the same JSON
// object alongside these four keys.
type ResponseHeader struct {
	Action       string `json:"Action"`
	RequestID    string `json:"RequestId"`
	StatusCode   int    `json:"StatusCode"`
	ErrorMessage string `json:"ErrorMessage"`
}

// StatusOK is the HTTP-style status code the gateway uses for success.
const StatusOK = 200

// EmptyResponse is the declared response type for actions that carry no
// payload. It deserializes from an empty JSON object (normalized to null
// first, per spec).
type EmptyResponse struct{}

// EncodeRequest builds the flattened outbound JSON frame for a request:
// {"Action": action, "RequestId": requestID, ...payload fields}.
func EncodeRequest(action, requestID string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("model: encode %s payload: %w", action, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payloadJSON, &fields); err != nil {
		return nil, fmt.Errorf("model: flatten %s payload: %w", action, err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	actionJSON, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}
	requestIDJSON, err := json.Marshal(requestID)
	if err != nil {
		return nil, err
	}
	fields["Action"] = actionJSON
	fields["RequestId"] = requestIDJSON

	return json.Marshal(fields)
}

// DecodeResponseHeader extracts the envelope header from a raw inbound frame.
func DecodeResponseHeader(raw []byte) (ResponseHeader, error) {
	var hdr ResponseHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return ResponseHeader{}, fmt.Errorf("model: decode response header: %w", err)
	}
	return hdr, nil
}

// reservedHeaderKeys are stripped from a response body before the remaining
// fields are re-marshaled into a target payload type.
var reservedHeaderKeys = [...]string{"Action", "RequestId", "StatusCode", "ErrorMessage"}

// DecodePayload unmarshals the flattened payload fields of a response frame
// into target, ignoring the envelope header keys. If, after stripping the
// header keys, no fields remain, the payload is treated as empty: target is
// left untouched (its zero value stands in for null) rather than attempting
// to unmarshal `{}` into it directly.
func DecodePayload(raw []byte, target any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("model: decode payload: %w", err)
	}
	for _, key := range reservedHeaderKeys {
		delete(fields, key)
	}
	if len(fields) == 0 {
		return nil
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("model: re-marshal payload: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("model: decode payload into %T: %w", target, err)
	}
	return nil
}
