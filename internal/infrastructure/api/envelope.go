// internal/infrastructure/api/envelope.go
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the {success, data, message} wrapper used by the backend.
// Bare JSON bodies (catalog endpoints answer with plain arrays) are folded into
// the same shape by decodeEnvelope, so callers never branch on response shape.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

type wireEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

var errMalformedBody = errors.New("response body is not valid JSON")

// decodeEnvelope normalizes a response body for the given status code
func decodeEnvelope(statusCode int, body []byte) (*Envelope, error) {
	ok := statusCode >= 200 && statusCode < 300
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) == 0 {
		if ok {
			return &Envelope{Success: true}, nil
		}
		return &Envelope{Success: false, Message: http.StatusText(statusCode)}, nil
	}

	if !json.Valid(trimmed) {
		if ok {
			return nil, errMalformedBody
		}
		return &Envelope{Success: false, Message: http.StatusText(statusCode)}, nil
	}

	if trimmed[0] != '{' {
		// bare array or scalar
		return &Envelope{Success: ok, Data: json.RawMessage(trimmed), Message: statusMessage(ok, statusCode)}, nil
	}

	var wire wireEnvelope
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, err
	}

	if wire.Success == nil {
		// bare object; error-shaped bodies only matter when the status says so
		env := &Envelope{Success: ok, Data: json.RawMessage(trimmed)}
		if !ok {
			env.Message = firstNonEmpty(wire.Message, wire.Error, http.StatusText(statusCode))
		}
		return env, nil
	}

	env := &Envelope{
		Success: *wire.Success && ok,
		Data:    wire.Data,
		Message: wire.Message,
	}
	if !env.Success {
		fallback := http.StatusText(statusCode)
		if ok {
			fallback = "request was not accepted"
		}
		env.Message = firstNonEmpty(wire.Message, wire.Error, fallback)
	}
	return env, nil
}

func statusMessage(ok bool, statusCode int) string {
	if ok {
		return ""
	}
	return http.StatusText(statusCode)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
