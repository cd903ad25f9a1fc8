package httpapi

import (
	"encoding/json"
	"net/http"
)

// RequestIDHeader is set on every response by the logging middleware; error
// envelopes echo it so a failed call can be matched to its log entries.
const RequestIDHeader = "X-Request-Id"

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	RequestID string            `json:"requestId,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	var requestID string
	if w != nil {
		requestID = w.Header().Get(RequestIDHeader)
	}
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Meta:      meta,
	})
}
