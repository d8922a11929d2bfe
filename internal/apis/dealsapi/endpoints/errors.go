package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"dealfinder/internal/domain/models"
)

type APIError struct {
	Status  int
	Code    any
	Message string
	Body    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("api error: status=%d code=%v message=%s", e.Status, e.Code, msg)
}

// Unwrap classifies the failure: 404 is ErrNotFound, everything else is
// ErrFetchFailure.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return models.ErrNotFound
	}
	return models.ErrFetchFailure
}

// ParseAPIError reads both the server envelope {"error":{"code","message"}}
// and flat {"code","message"} bodies. Empty or non-JSON bodies are kept raw.
func ParseAPIError(status int, body []byte) *APIError {
	out := &APIError{Status: status, Body: string(body)}

	var m map[string]any
	if json.Unmarshal(body, &m) != nil {
		return out
	}
	if nested, ok := m["error"].(map[string]any); ok {
		m = nested
	}
	if v, ok := m["code"]; ok {
		out.Code = v
	}
	if v, ok := m["message"].(string); ok {
		out.Message = v
	}
	return out
}
