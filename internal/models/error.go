package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// APIError is the error body returned by the users API on non-2xx responses
type APIError struct {
	Error string `json:"error"`
}

// ErrorMessage extracts the display message from a failed response body.
// It prefers the "error" field and falls back to the compact JSON text of the body.
func ErrorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return strings.TrimSpace(string(body))
	}
	return compact.String()
}
