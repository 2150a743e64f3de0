// Package envelope implements the three-field message wrapper exchanged
// with the coordinator: {requester_service, payload, response}. The
// payload's "action" field selects the remote operation; the response
// field carries the remote system's echo shape back.
package envelope

import (
	"encoding/json"
	"fmt"
)

// Header names carried alongside every envelope POST.
const (
	HeaderServiceName = "X-Service-Name"
	HeaderSignature   = "X-Signature"
)

type Envelope struct {
	RequesterService string                 `json:"requester_service"`
	Payload          map[string]interface{} `json:"payload"`
	Response         map[string]interface{} `json:"response,omitempty"`
}

// Wrap builds an envelope for the given action and payload fields. The
// action is folded into the payload map, which is also the unit that gets
// signed.
func Wrap(requesterService, action string, fields map[string]interface{}) Envelope {
	payload := make(map[string]interface{}, len(fields)+1)
	payload["action"] = action
	for k, v := range fields {
		payload[k] = v
	}
	return Envelope{RequesterService: requesterService, Payload: payload}
}

// Unwrap parses raw envelope bytes and returns the response map. An
// envelope whose response field is absent or empty is reported as such so
// callers can fall back to their mock.
func Unwrap(raw []byte) (map[string]interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if len(env.Response) == 0 {
		return nil, fmt.Errorf("envelope response is empty")
	}
	return env.Response, nil
}
